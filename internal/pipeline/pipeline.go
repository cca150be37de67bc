package pipeline

import (
	"context"
	"log/slog"

	"github.com/crawlmap/crawlmap/internal/model"
)

// Step defines one stage of a crawl run. Steps execute in sequence,
// each receiving the shared result to read or extend.
//
// Design decision: We use an interface rather than function types
// because steps carry configuration state and a Name() for logging.
type Step interface {
	// Do executes the step. Per-URL and other recoverable failures
	// should be recorded in the result and return nil; a non-nil error
	// means the step failed critically.
	Do(ctx context.Context, result *model.CrawlResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// cancelTolerant is implemented by steps that must still run after the
// run is cancelled, such as the report step writing out a partial
// result. Steps without it are skipped once the context is done.
type cancelTolerant interface {
	runsOnCancel() bool
}

// Pipeline executes an ordered list of steps against one crawl result.
type Pipeline struct {
	// steps is the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError keeps executing remaining steps after a failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithContinueOnError keeps the pipeline running after a step fails.
// The default is to stop, because an early failure (e.g. an unusable
// seed) makes the remaining steps meaningless.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a Pipeline. Steps are added with AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}

// Execute runs the steps in order. Cancellation is checked between
// steps; steps are expected to honor ctx themselves while running.
// Cancel-tolerant steps still run after cancellation so an interrupted
// crawl ends with its partial result written, not discarded.
// Returns the first step error unless continue-on-error is set.
func (p *Pipeline) Execute(ctx context.Context, result *model.CrawlResult) error {
	var firstErr error

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			result.Truncated = true
			if ct, ok := step.(cancelTolerant); !ok || !ct.runsOnCancel() {
				p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", ctx.Err())
				return ctx.Err()
			}
			p.logger.Warn("run cancelled, step still executes", "step", step.Name(), "reason", ctx.Err())
		default:
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "error", err)
			if !p.continueOnError {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		p.logger.Debug("step completed", "step", step.Name())
	}

	return firstErr
}
