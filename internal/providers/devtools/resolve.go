package devtools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/GriffinCanCode/miniapp/backend/internal/shared/apperr"
)

// CLIEnv names the environment variable holding the IDE CLI path
const CLIEnv = "IDE_CLI"

var defaultCLIPaths = map[string]string{
	"darwin":  "/Applications/wechatwebdevtools.app/Contents/MacOS/cli",
	"windows": `C:\Program Files (x86)\Tencent\微信web开发者工具\cli.bat`,
}

// DefaultCLIPath returns the usual install location on goos, or "".
func DefaultCLIPath(goos string) string {
	return defaultCLIPaths[goos]
}

// ResolveCLI returns the executable path of the IDE CLI. A non-empty
// configured value wins over the platform default.
func ResolveCLI(configured string) (string, error) {
	candidate := configured
	if candidate == "" {
		candidate = DefaultCLIPath(runtime.GOOS)
	}
	if candidate == "" {
		return "", apperr.New(apperr.LauncherToolMissing, "devtools.resolve",
			fmt.Errorf("%s is not set and %s has no default install path", CLIEnv, runtime.GOOS))
	}

	path, err := exec.LookPath(candidate)
	if err != nil {
		return "", apperr.New(apperr.LauncherToolMissing, "devtools.resolve", err)
	}
	return path, nil
}

// ResolveRoot returns the absolute parent directory of base. An empty base
// means the directory of the running executable.
func ResolveRoot(base string) (string, error) {
	if base == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return "", err
		}
		base = dir
	}

	root, err := filepath.Abs(filepath.Join(base, ".."))
	if err != nil {
		return "", fmt.Errorf("resolve project root: %w", err)
	}
	return root, nil
}

// ExecutableDir returns the directory holding the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ExitCode extracts the CLI exit status from a LauncherToolFailed error.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
