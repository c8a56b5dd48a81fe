package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkautomation/planrefresh/internal/constants"
)

var (
	// ErrTimeout is returned when the refresh does not complete within the wall-clock budget.
	ErrTimeout = errors.New("refresh did not complete within the allowed time")
	// ErrRefresh is returned when the refresh fails for any reason other than the budget.
	ErrRefresh = errors.New("refresh failed")
)

// Executor applies the wall-clock budget to an Engine.
type Executor struct {
	engine  Engine
	timeout time.Duration

	log *slog.Logger
}

// NewExecutor returns an Executor running engine under the given budget.
// A zero timeout selects the default budget.
func NewExecutor(l *slog.Logger, engine Engine, timeout time.Duration) Executor {
	if timeout <= 0 {
		timeout = constants.DefaultRefreshTimeout
	}
	return Executor{engine: engine, timeout: timeout, log: l}
}

// Run refreshes the workbook at path, killing the engine if the budget is
// exceeded. On success the refreshed workbook has been saved in place by the
// engine.
func (e Executor) Run(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err := e.engine.Refresh(ctx, path)
	if err == nil {
		e.log.Info("[Ok] file has been refreshed and saved", "path", path)
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, fmt.Errorf("refresh of %s exceeded the timeout of %s", path, e.timeout))
	}
	return errors.Join(ErrRefresh, err)
}
