package scoring

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/recruitsense/li-sourcer/internal/ai"
	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

const defaultWorkers = 4

// Pool scores candidates concurrently on a bounded worker pool. A failure on
// one candidate never aborts the others: the error is recorded on the
// candidate's assessment, or the fallback matcher is tried when configured.
type Pool struct {
	matcher  ai.Matcher
	fallback ai.Matcher
	workers  int
	logger   *zap.Logger
}

func NewPool(matcher ai.Matcher, fallback ai.Matcher, workers int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Pool{
		matcher:  matcher,
		fallback: fallback,
		workers:  workers,
		logger:   log,
	}
}

// Run evaluates every candidate in place. Each worker writes only to its own
// candidate, so no locking is needed. The returned error is non-nil only when
// the context was canceled.
func (p *Pool) Run(ctx context.Context, jobDescription string, candidates *sourcing.Candidates) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, candidate := range candidates.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			p.score(gctx, jobDescription, candidate)
			return nil
		})
	}

	return g.Wait()
}

func (p *Pool) score(ctx context.Context, jobDescription string, candidate *sourcing.Candidate) {
	assessment, err := p.matcher.Evaluate(ctx, jobDescription, candidate)
	if err != nil {
		p.logger.Warn("scoring failed",
			zap.String("candidate_url", candidate.URL),
			zap.Error(err),
		)

		if p.fallback == nil {
			candidate.AI = &sourcing.Assessment{Error: err.Error()}
			return
		}

		assessment, err = p.fallback.Evaluate(ctx, jobDescription, candidate)
		if err != nil {
			p.logger.Warn("fallback scoring failed",
				zap.String("candidate_url", candidate.URL),
				zap.Error(err),
			)
			candidate.AI = &sourcing.Assessment{Error: err.Error()}
			return
		}
	}

	candidate.AI = &sourcing.Assessment{
		Fit:       assessment.Fit,
		Score:     assessment.Score,
		Breakdown: assessment.Breakdown,
		Reason:    assessment.Reason,
		Raw:       assessment.Raw,
	}

	p.logger.Debug("candidate scored",
		zap.String("candidate_url", candidate.URL),
		zap.Float64("score", assessment.Score),
	)
}
