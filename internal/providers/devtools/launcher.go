package devtools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/miniapp/backend/internal/shared/apperr"
)

// Launcher runs the IDE CLI
type Launcher struct {
	CLI    string
	Stdout io.Writer
	Stderr io.Writer

	// PTY runs the CLI on a pseudo-terminal of Cols x Rows
	PTY  bool
	Cols uint16
	Rows uint16

	Logger *zap.Logger
}

// NewLauncher creates a launcher writing to the process's own streams
func NewLauncher(cli string) *Launcher {
	return &Launcher{
		CLI:    cli,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Cols:   120,
		Rows:   32,
		Logger: zap.NewNop(),
	}
}

// Args returns the CLI arguments for root
func Args(root string) []string {
	return []string{"open", "--project", root}
}

// Open runs "<cli> open --project <root>" and waits for it to exit
func (l *Launcher) Open(ctx context.Context, root string) error {
	cmd := exec.CommandContext(ctx, l.CLI, Args(root)...)
	log := l.logger().With(zap.String("cli", l.CLI), zap.String("project", root))
	log.Info("opening project in IDE", zap.Bool("pty", l.PTY))

	var err error
	if l.PTY {
		err = l.runPTY(cmd)
	} else {
		cmd.Stdout = l.Stdout
		cmd.Stderr = l.Stderr
		err = classify(cmd.Run())
	}

	if err != nil {
		log.Error("IDE CLI failed", zap.Error(err))
		return err
	}
	log.Info("IDE CLI finished")
	return nil
}

func (l *Launcher) runPTY(cmd *exec.Cmd) error {
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: l.Cols, Rows: l.Rows})
	if err != nil {
		return classify(err)
	}
	defer ptmx.Close()

	// Reading the master returns EIO once the child exits on Linux.
	copyDone := make(chan struct{})
	go func() {
		_, _ = io.Copy(l.Stdout, ptmx)
		close(copyDone)
	}()

	waitErr := cmd.Wait()
	ptmx.Close()
	<-copyDone

	return classify(waitErr)
}

func (l *Launcher) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// classify maps a process error to its launcher kind
func classify(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return apperr.New(apperr.LauncherToolFailed, "devtools.open",
			fmt.Errorf("exit status %d: %w", exitErr.ExitCode(), err))
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return apperr.New(apperr.LauncherToolMissing, "devtools.open", err)
	}
	return apperr.New(apperr.LauncherToolFailed, "devtools.open", err)
}
