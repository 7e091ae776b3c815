// Package ranking turns a raw candidate list into the final ranked output by
// running a sequence of steps: scoring, threshold filtering and top-N capping.
package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

// Step represents a single ranking stage applied to candidates.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, c *sourcing.Candidates) (*sourcing.Candidates, Stats, error)
}

// Stats describes the result of executing a ranking step.
type Stats struct {
	Initial int
	Dropped int
	Left    int
}

type Ranking struct {
	steps  []Step
	logger *zap.Logger
}

func New(steps []Step, logger *zap.Logger) *Ranking {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranking{steps: steps, logger: logger}
}

// Run executes the configured steps sequentially, returning the resulting
// candidate list.
func (r *Ranking) Run(ctx context.Context, c *sourcing.Candidates) (*sourcing.Candidates, error) {
	for _, step := range r.steps {
		if !step.IsEnabled() {
			r.logger.Info("ranking step disabled", zap.String("name", step.Name()))
			continue
		}

		next, stats, err := step.Apply(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		r.logger.Info("ranking step",
			zap.String("name", step.Name()),
			zap.Int("initial", stats.Initial),
			zap.Int("dropped", stats.Dropped),
			zap.Int("left", stats.Left),
		)

		c = next
	}

	return c, nil
}
