package ai

import (
	"context"

	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

// FitAssessment is the outcome of matching one candidate against a job
// description. Score is on a 0-10 scale.
type FitAssessment struct {
	Fit       bool
	Score     float64
	Breakdown map[string]float64
	Reason    string
	Raw       string
}

type Matcher interface {
	Evaluate(ctx context.Context, jobDescription string, candidate *sourcing.Candidate) (*FitAssessment, error)
}
