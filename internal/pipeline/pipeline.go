package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/gdorking/internal/model"
)

// Step is one stage of a catalog run. Each step reads what earlier steps
// left in the catalog and fills in its own fields.
type Step interface {
	// Do executes the step. A returned error stops the pipeline.
	Do(ctx context.Context, catalog *model.Catalog) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline runs steps in order and stops at the first failure, so nothing
// is exported from a fetch that did not complete.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
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

// Execute runs every step against catalog. Cancellation is checked
// between steps; each step handles its own blocking calls.
func (p *Pipeline) Execute(ctx context.Context, catalog *model.Catalog) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name(), "source", catalog.Source)

		if err := step.Do(ctx, catalog); err != nil {
			p.logger.Debug("step failed", "step", step.Name(), "error", err)
			return err
		}
		catalog.PerformedSteps = append(catalog.PerformedSteps, step.Name())
	}
	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
