package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dkautomation/planrefresh/internal/constants"
	"github.com/dkautomation/planrefresh/internal/orchestrator"
	"github.com/dkautomation/planrefresh/internal/worker"
	"github.com/dkautomation/planrefresh/internal/workitem"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func installRunCmd(app *App) {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Process one work item from the queue",
		Long: `Process one work item from the queue.

The worker claims the oldest new element from the orchestrator queue and
processes it start to finish: download, refresh, upload, optional monthly
archive. With --payload, the given payload is processed instead of claiming
from the queue; credentials still come from the orchestrator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Running run command")
			return app.runRun(cmd.Context())
		},
	}

	runCmd.Flags().StringVar(&app.config.Run.Queue, "queue", constants.DefaultQueueName, "the orchestrator queue to claim work items from")
	runCmd.Flags().StringVar(&app.config.Run.Payload, "payload", "", "process this work item payload instead of claiming from the queue")
	runCmd.Flags().StringVar(&app.config.Run.ScratchDir, "scratch-dir", "", "directory for the local scratch copy (defaults to the working directory)")
	runCmd.Flags().Uint32Var(&app.config.Run.RefreshTimeout, "refresh-timeout", uint32(constants.DefaultRefreshTimeout.Seconds()), "wall-clock budget for the refresh step, in seconds")

	app.cmd.AddCommand(runCmd)
}

// runRun claims and processes one work item.
func (a App) runRun(ctx context.Context) error {
	l := slog.Default()
	cfg := a.config.Run

	if cfg.DSN == "" {
		a.cmd.SilenceUsage = false
		return fmt.Errorf("the orchestrator DSN must be set through the configuration file or the %s_RUN_DSN environment variable", strings.ToUpper(constants.CmdName))
	}

	conn, err := a.newOrchestrator(ctx, l, cfg.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Milestone lines go to the orchestrator sink as well as the local log.
	l = slog.New(conn.LogHandler(constants.CmdName, l.Handler()))

	w, err := a.newWorker(l, conn, worker.Config{
		ScratchDir:     cfg.ScratchDir,
		RefreshTimeout: time.Duration(cfg.RefreshTimeout) * time.Second,
		RefreshCommand: cfg.RefreshCommand,
	})
	if err != nil {
		return fmt.Errorf("failed to create worker: %v", err)
	}

	if cfg.Payload != "" {
		item, err := workitem.Parse(uuid.New(), []byte(cfg.Payload))
		if err != nil {
			return err
		}
		return w.ProcessItem(ctx, item)
	}

	element, err := conn.NextQueueElement(ctx, cfg.Queue)
	if errors.Is(err, orchestrator.ErrNoQueueElement) {
		l.Info("No new work item in queue", "queue", cfg.Queue)
		return nil
	}
	if err != nil {
		return err
	}

	item, err := workitem.Parse(element.ID, element.Data)
	if err != nil {
		serr := conn.SetQueueElementStatus(ctx, element.ID, orchestrator.StatusFailed, err.Error())
		return errors.Join(err, serr)
	}

	if err := w.ProcessItem(ctx, item); err != nil {
		serr := conn.SetQueueElementStatus(ctx, element.ID, orchestrator.StatusFailed, err.Error())
		return errors.Join(err, serr)
	}

	return conn.SetQueueElementStatus(ctx, element.ID, orchestrator.StatusDone, "")
}
