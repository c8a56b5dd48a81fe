// Package refresh is the implementation of the bounded refresh executor
// component. It runs the opaque spreadsheet refresh operation (open,
// recompute all data connections, save, close) under a hard wall-clock
// budget, in a separate process so a hung engine can be forcibly killed.
package refresh

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Engine recomputes all external data connections of the workbook at path
// and persists the result in place. Implementations must honor context
// cancellation as a hard stop; the production engine runs out of process so
// cancellation kills it rather than asking it to cooperate.
type Engine interface {
	Refresh(ctx context.Context, path string) error
}

// CommandEngine drives an external refresh bridge command. The bridge is
// invoked once per workbook with the workbook path appended as the last
// argument, and must run non-interactively.
type CommandEngine struct {
	command []string

	log *slog.Logger
}

// NewCommandEngine returns an engine running the given bridge command.
func NewCommandEngine(l *slog.Logger, command []string) (CommandEngine, error) {
	if len(command) == 0 {
		return CommandEngine{}, fmt.Errorf("refresh command cannot be empty")
	}
	return CommandEngine{command: command, log: l}, nil
}

// Refresh runs the bridge command on the workbook at path. Cancelling the
// context kills the bridge process.
func (e CommandEngine) Refresh(ctx context.Context, path string) error {
	args := append(e.command[1:], path)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	c := exec.CommandContext(ctx, e.command[0], args...)
	c.Stdout = stdout
	c.Stderr = stderr
	c.Env = append(os.Environ(), "LANG=C", "LC_ALL=C")

	e.log.Debug("Running refresh bridge", "command", e.command[0], "path", path)
	if err := c.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s failed: %v: %s", e.command[0], err, stderr.String())
		}
		return fmt.Errorf("%s failed: %v", e.command[0], err)
	}

	if stderr.Len() > 0 {
		e.log.Info(fmt.Sprintf("%s output to stderr", e.command[0]), "stderr", stderr)
	}
	return nil
}
