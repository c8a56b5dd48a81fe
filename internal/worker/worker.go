// Package worker is the implementation of the pipeline driver component.
// One call processes one work item start to finish: connect, download,
// bounded refresh, publish. The first failing stage aborts the rest, the
// local scratch file is removed on every exit path, and the error is
// surfaced to the invoking runtime.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dkautomation/planrefresh/internal/constants"
	"github.com/dkautomation/planrefresh/internal/fileutils"
	"github.com/dkautomation/planrefresh/internal/orchestrator"
	"github.com/dkautomation/planrefresh/internal/publish"
	"github.com/dkautomation/planrefresh/internal/refresh"
	"github.com/dkautomation/planrefresh/internal/sharepoint"
	"github.com/dkautomation/planrefresh/internal/workitem"
)

// CredentialProvider supplies the storage credential for a run.
type CredentialProvider interface {
	GetCredential(ctx context.Context, name string) (orchestrator.Credential, error)
}

// Storage is the slice of the storage client the worker drives.
type Storage interface {
	Connect(ctx context.Context) error
	Download(ctx context.Context, remotePath, dir string) (string, error)
	publish.Uploader
}

// Config represents the worker specific data needed to process an item.
type Config struct {
	ScratchDir     string
	RefreshTimeout time.Duration
	RefreshCommand []string
}

// Sanitize sets defaults and checks that the Config is properly configured.
func (c *Config) Sanitize(l *slog.Logger) error {
	if c.ScratchDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %v", err)
		}
		c.ScratchDir = wd
		l.Debug("No scratch directory provided, defaulting to working directory", "dir", c.ScratchDir)
	}

	if c.RefreshTimeout <= 0 {
		c.RefreshTimeout = constants.DefaultRefreshTimeout
	}

	if len(c.RefreshCommand) == 0 {
		c.RefreshCommand = constants.DefaultRefreshCommand
	}

	return nil
}

// Worker processes work items one at a time.
type Worker struct {
	creds  CredentialProvider
	config Config

	newStorage func(l *slog.Logger, site, username, password string) (Storage, error)
	engine     refresh.Engine

	log *slog.Logger
}

type options struct {
	// Private members exported for tests.
	newStorage func(l *slog.Logger, site, username, password string) (Storage, error)
	engine     refresh.Engine
}

// Options represents an optional function to override Worker default values.
type Options func(*options)

// New returns a new Worker.
func New(l *slog.Logger, creds CredentialProvider, c Config, args ...Options) (Worker, error) {
	if creds == nil {
		return Worker{}, fmt.Errorf("credential provider cannot be nil")
	}
	if err := c.Sanitize(l); err != nil {
		return Worker{}, err
	}

	opts := options{
		newStorage: func(l *slog.Logger, site, username, password string) (Storage, error) {
			return sharepoint.New(l, site, username, password)
		},
	}
	for _, opt := range args {
		opt(&opts)
	}

	if opts.engine == nil {
		engine, err := refresh.NewCommandEngine(l, c.RefreshCommand)
		if err != nil {
			return Worker{}, err
		}
		opts.engine = engine
	}

	return Worker{
		creds:  creds,
		config: c,

		newStorage: opts.newStorage,
		engine:     opts.engine,

		log: l,
	}, nil
}

// ProcessItem runs the whole pipeline for one work item.
//
// Failure at any stage aborts the remaining stages. Whatever the outcome,
// the local scratch file is gone when ProcessItem returns.
func (w Worker) ProcessItem(ctx context.Context, item workitem.Item) (err error) {
	defer func() {
		if err != nil {
			w.log.Error(err.Error())
		}
	}()

	cred, err := w.creds.GetCredential(ctx, constants.CredentialName)
	if err != nil {
		return fmt.Errorf("failed to get storage credential: %w", err)
	}

	client, err := w.newStorage(w.log, item.Site, cred.Username, cred.Password)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := client.Connect(ctx); err != nil {
		return err
	}

	localPath, err := client.Download(ctx, item.FolderPath, w.config.ScratchDir)
	if err != nil {
		return err
	}
	defer func() {
		// Publish removes the file on its own paths; this covers the rest.
		if rerr := fileutils.RemoveIfExists(localPath); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	executor := refresh.NewExecutor(w.log, w.engine, w.config.RefreshTimeout)
	if err := executor.Run(ctx, localPath); err != nil {
		return err
	}

	return publish.New(w.log, client).Publish(ctx, item, localPath)
}
