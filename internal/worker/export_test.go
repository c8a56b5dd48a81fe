package worker

import (
	"log/slog"

	"github.com/dkautomation/planrefresh/internal/refresh"
)

// WithNewStorage sets the storage client factory for the worker.
func WithNewStorage(f func(l *slog.Logger, site, username, password string) (Storage, error)) Options {
	return func(o *options) {
		o.newStorage = f
	}
}

// WithEngine sets the refresh engine for the worker.
func WithEngine(e refresh.Engine) Options {
	return func(o *options) {
		o.engine = e
	}
}
