// Package spawn launches external programs without waiting for them.
package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// ErrSpawn is returned when a program could not be started.
var ErrSpawn = errors.New("spawn failed")

// Launcher starts a command line and returns once it is running.
type Launcher interface {
	Spawn(commandLine string) error
}

// ExecLauncher runs command lines through /bin/sh -c in their own process
// group, so children outlive a window manager restart.
type ExecLauncher struct {
	Shell  string
	Logger *slog.Logger
}

// NewExecLauncher returns a launcher using /bin/sh.
func NewExecLauncher(logger *slog.Logger) *ExecLauncher {
	return &ExecLauncher{Shell: "/bin/sh", Logger: logger}
}

// Spawn starts commandLine and reaps it in the background.
func (l *ExecLauncher) Spawn(commandLine string) error {
	commandLine = strings.TrimSpace(commandLine)
	if commandLine == "" {
		return fmt.Errorf("empty command line: %w", ErrSpawn)
	}

	shell := l.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.Command(shell, "-c", commandLine)
	cmd.Stdin = nil
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrSpawn, commandLine, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil && l.Logger != nil {
			l.Logger.Debug("spawned command exited", "command", commandLine, "error", err)
		}
	}()
	return nil
}
