package ranking

import (
	"context"
	"fmt"

	"github.com/recruitsense/li-sourcer/internal/scoring"
	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

type dedupeStep struct{}

// NewDedupe creates a step that removes candidates with duplicate URLs.
func NewDedupe() Step {
	return &dedupeStep{}
}

func (s *dedupeStep) Name() string { return "dedupe" }

func (s *dedupeStep) Disable(string) {}

func (s *dedupeStep) IsEnabled() bool { return true }

func (s *dedupeStep) Apply(_ context.Context, c *sourcing.Candidates) (*sourcing.Candidates, Stats, error) {
	initial := c.Len()
	removed := c.Dedupe()
	return c, Stats{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

type scoreStep struct {
	pool           *scoring.Pool
	jobDescription string
}

// NewScore creates the step that assigns a score to every candidate via the
// concurrent scoring pool. No candidate is dropped here; failed ones keep an
// assessment error and a zero score.
func NewScore(pool *scoring.Pool, jobDescription string) Step {
	return &scoreStep{pool: pool, jobDescription: jobDescription}
}

func (s *scoreStep) Name() string { return "score" }

func (s *scoreStep) Disable(string) {}

func (s *scoreStep) IsEnabled() bool { return true }

func (s *scoreStep) Apply(ctx context.Context, c *sourcing.Candidates) (*sourcing.Candidates, Stats, error) {
	if s.pool == nil {
		return c, Stats{}, fmt.Errorf("scoring pool is required")
	}

	initial := c.Len()
	if err := s.pool.Run(ctx, s.jobDescription, c); err != nil {
		return c, Stats{}, err
	}

	return c, Stats{Initial: initial, Dropped: 0, Left: c.Len()}, nil
}

type thresholdStep struct {
	disabled bool
	reason   string
	min      float64
}

// NewThreshold creates a step that drops candidates scoring below min.
func NewThreshold(min float64) Step {
	return &thresholdStep{min: min, disabled: min <= 0}
}

func (s *thresholdStep) Name() string { return "threshold" }

func (s *thresholdStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *thresholdStep) IsEnabled() bool { return !s.disabled }

func (s *thresholdStep) Apply(_ context.Context, c *sourcing.Candidates) (*sourcing.Candidates, Stats, error) {
	initial := c.Len()

	kept := make([]*sourcing.Candidate, 0, initial)
	for _, candidate := range c.Items {
		// Candidates with a scoring error stay in: an upstream outage
		// should degrade ranking quality, not silently drop people.
		if candidate.AI != nil && candidate.AI.Error == "" && candidate.AI.Score < s.min {
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	return c, Stats{Initial: initial, Dropped: initial - c.Len(), Left: c.Len()}, nil
}

type topStep struct {
	n int
}

// NewTop creates the final step that sorts candidates by descending score and
// keeps at most n of them.
func NewTop(n int) Step {
	return &topStep{n: n}
}

func (s *topStep) Name() string { return "top" }

func (s *topStep) Disable(string) {}

func (s *topStep) IsEnabled() bool { return true }

func (s *topStep) Apply(_ context.Context, c *sourcing.Candidates) (*sourcing.Candidates, Stats, error) {
	initial := c.Len()

	c.SortByScore()
	if s.n > 0 {
		c.Top(s.n)
	}

	return c, Stats{Initial: initial, Dropped: initial - c.Len(), Left: c.Len()}, nil
}
