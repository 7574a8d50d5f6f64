// Command devtools-open opens the project in the IDE through its CLI:
//
//	devtools-open [--project DIR] [--cli PATH] [--pty]
//
// The project defaults to the parent of the directory holding this binary and
// the CLI to $IDE_CLI or the platform install path. The command exits with
// the CLI's status when it fails, and 1 on any other error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/miniapp/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/miniapp/backend/internal/providers/devtools"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintln(os.Stderr, "devtools-open:", err)
	if code, ok := devtools.ExitCode(err); ok && code > 0 {
		return code
	}
	return 1
}

func newRootCmd() *cobra.Command {
	var (
		project string
		cli     string
		usePTY  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "devtools-open",
		Short:         "Open the project in the IDE",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(verbose)
			defer logger.Sync()

			if cli == "" {
				cli = configuredCLI(logger.Logger)
			}
			path, err := devtools.ResolveCLI(cli)
			if err != nil {
				return err
			}

			root, err := resolveProject(project)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l := devtools.NewLauncher(path)
			l.Stdout = cmd.OutOrStdout()
			l.Stderr = cmd.ErrOrStderr()
			l.PTY = usePTY
			l.Logger = logger.Logger
			return l.Open(ctx, root)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project directory (default: parent of the binary's directory)")
	cmd.Flags().StringVar(&cli, "cli", "", "IDE CLI path (default: $"+devtools.CLIEnv+" or the platform install path)")
	cmd.Flags().BoolVar(&usePTY, "pty", false, "run the CLI on a pseudo-terminal")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log launcher progress to stderr")

	cmd.SetContext(context.Background())
	return cmd
}

// resolveProject makes an explicit project absolute, or derives it from the
// binary location
func resolveProject(project string) (string, error) {
	if project == "" {
		return devtools.ResolveRoot("")
	}

	root, err := filepath.Abs(project)
	if err != nil {
		return "", fmt.Errorf("resolve project %q: %w", project, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("project %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project %q is not a directory", root)
	}
	return root, nil
}

// configuredCLI returns $IDE_CLI, or the devtools.cli entry of the
// configuration file when the variable is unset
func configuredCLI(logger *zap.Logger) string {
	if cli := os.Getenv(devtools.CLIEnv); cli != "" {
		return cli
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("ignoring unreadable configuration", zap.Error(err))
		return ""
	}
	return cfg.DevTools.CLI
}

func newLogger(verbose bool) *logging.Logger {
	if !verbose {
		return logging.NewNop()
	}

	cfg := logging.DevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := logging.New(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}
