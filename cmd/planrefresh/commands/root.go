// Package commands contains the commands of the planrefresh command line tool.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dkautomation/planrefresh/internal/constants"
	"github.com/dkautomation/planrefresh/internal/orchestrator"
	"github.com/dkautomation/planrefresh/internal/worker"
	"github.com/dkautomation/planrefresh/internal/workitem"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App represents the application running the commands.
type App struct {
	cmd   *cobra.Command
	viper *viper.Viper

	config appConfig

	newWorker       newWorker
	newOrchestrator newOrchestrator
}

type appConfig struct {
	Verbose int

	Run runConfig
}

type runConfig struct {
	DSN   string
	Queue string

	Payload string

	ScratchDir     string
	RefreshTimeout uint32
	RefreshCommand []string
}

// processor handles one work item start to finish.
type processor interface {
	ProcessItem(ctx context.Context, item workitem.Item) error
}

// queueClient is the surface of the orchestrator connection the run command uses.
type queueClient interface {
	worker.CredentialProvider
	NextQueueElement(ctx context.Context, queue string) (orchestrator.QueueElement, error)
	SetQueueElementStatus(ctx context.Context, id uuid.UUID, status orchestrator.Status, message string) error
	LogHandler(process string, next slog.Handler) slog.Handler
	Close()
}

type newWorker func(l *slog.Logger, creds worker.CredentialProvider, c worker.Config, args ...worker.Options) (processor, error)

type newOrchestrator func(ctx context.Context, l *slog.Logger, dsn string) (queueClient, error)

type options struct {
	// Private members exported for tests.
	newWorker       newWorker
	newOrchestrator newOrchestrator
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New builds the command line application.
func New(args ...Options) (*App, error) {
	opts := options{
		newWorker: func(l *slog.Logger, creds worker.CredentialProvider, c worker.Config, args ...worker.Options) (processor, error) {
			return worker.New(l, creds, c, args...)
		},
		newOrchestrator: func(ctx context.Context, l *slog.Logger, dsn string) (queueClient, error) {
			return orchestrator.Connect(ctx, l, dsn)
		},
	}
	for _, opt := range args {
		opt(&opts)
	}

	a := App{
		viper:           viper.New(),
		newWorker:       opts.newWorker,
		newOrchestrator: opts.newOrchestrator,
	}
	a.cmd = &cobra.Command{
		Use:   fmt.Sprintf("%s COMMAND", constants.CmdName),
		Short: "Queue driven worker refreshing SharePoint spreadsheets",
		Long: `Queue driven worker refreshing SharePoint spreadsheets.

Each run claims one work item from the orchestrator queue, downloads the
described spreadsheet, recomputes its external data connections and uploads
the refreshed file back, optionally archiving a dated copy.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing passed, no more usage errors from here on.
			a.cmd.SilenceUsage = true

			if err := initViperConfig(constants.CmdName, cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to decode configuration: %w", err)
			}
			setVerbosity(a.config.Verbose)
			return nil
		},
	}
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	a.cmd.PersistentFlags().CountP("verbose", "v", "issue INFO (-v) and DEBUG (-vv) output")
	installConfigFlag(a.cmd)

	if err := a.viper.BindPFlag("verbose", a.cmd.PersistentFlags().Lookup("verbose")); err != nil {
		return nil, err
	}

	installRunCmd(&a)
	installVersionCmd(&a)

	return &a, nil
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.Execute()
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// RootCmd returns a copy of the root command. Shouldn't be used in general
// outside of tests.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}

// setVerbosity sets the global logging level based on the verbose flag count.
func setVerbosity(level int) {
	switch level {
	case 0:
		slog.SetLogLoggerLevel(constants.DefaultLogLevel)
	case 1:
		slog.SetLogLoggerLevel(slog.LevelInfo)
	default:
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
}
