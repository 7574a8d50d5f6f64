/*
Package devtools opens the project in the external IDE through its
command-line entry point:

	<cli> open --project <root>

The CLI is located from IDE_CLI or a per-platform install path. Output is
streamed verbatim to the configured writers; in PTY mode the CLI runs on a
pseudo-terminal so it renders its progress output.

Errors carry apperr kinds: LauncherToolMissing when the CLI cannot be found
or started, LauncherToolFailed when it exits non-zero.
*/
package devtools
