package commands

type (
	NewWorker       = newWorker
	NewOrchestrator = newOrchestrator
	Processor       = processor
	QueueClient     = queueClient
)

// SetArgs sets the arguments for the command.
func (a *App) SetArgs(args []string) {
	a.cmd.SetArgs(args)
}

// WithNewWorker overrides the worker factory used by the run command.
func WithNewWorker(nw NewWorker) Options {
	return func(o *options) {
		o.newWorker = nw
	}
}

// WithNewOrchestrator overrides the orchestrator factory used by the run command.
func WithNewOrchestrator(no NewOrchestrator) Options {
	return func(o *options) {
		o.newOrchestrator = no
	}
}
