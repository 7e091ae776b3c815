package ranking

import (
	"context"
	"testing"

	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

func scored(url string, score float64) *sourcing.Candidate {
	return &sourcing.Candidate{URL: url, AI: &sourcing.Assessment{Score: score}}
}

func TestDedupeStep(t *testing.T) {
	candidates := &sourcing.Candidates{Items: []*sourcing.Candidate{
		{URL: "https://linkedin.com/in/a"},
		{URL: "https://linkedin.com/in/a"},
		{URL: "https://linkedin.com/in/b"},
	}}

	result, stats, err := NewDedupe().Apply(context.Background(), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if stats.Initial != 3 || stats.Dropped != 1 || stats.Left != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if result.Len() != 2 {
		t.Fatalf("expected 2 candidates, got %d", result.Len())
	}
}

func TestThresholdStepKeepsErroredCandidates(t *testing.T) {
	candidates := &sourcing.Candidates{Items: []*sourcing.Candidate{
		scored("high", 8.0),
		scored("low", 2.0),
		{URL: "errored", AI: &sourcing.Assessment{Error: "quota exceeded"}},
	}}

	result, stats, err := NewThreshold(5.0).Apply(context.Background(), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if stats.Dropped != 1 {
		t.Fatalf("expected only the low scorer dropped, stats: %+v", stats)
	}
	if result.FindByURL("low") != nil {
		t.Fatalf("low scorer must be dropped")
	}
	if result.FindByURL("high") == nil {
		t.Fatalf("high scorer must be kept")
	}
	if result.FindByURL("errored") == nil {
		t.Fatalf("a candidate with a scoring error must be kept")
	}
}

func TestThresholdStepDisabledForZeroMin(t *testing.T) {
	step := NewThreshold(0)

	if step.IsEnabled() {
		t.Fatalf("expected the threshold step to be disabled for a zero minimum")
	}
}

func TestThresholdStepDisable(t *testing.T) {
	step := NewThreshold(5.0)
	if !step.IsEnabled() {
		t.Fatalf("expected the step enabled for a positive minimum")
	}

	step.Disable("testing")
	if step.IsEnabled() {
		t.Fatalf("expected the step disabled after Disable")
	}
}

func TestTopStepSortsAndCaps(t *testing.T) {
	candidates := &sourcing.Candidates{Items: []*sourcing.Candidate{
		scored("u1", 3.0),
		scored("u2", 9.0),
		scored("u3", 6.0),
	}}

	result, stats, err := NewTop(2).Apply(context.Background(), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if stats.Initial != 3 || stats.Dropped != 1 || stats.Left != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if result.Items[0].URL != "u2" || result.Items[1].URL != "u3" {
		t.Fatalf("unexpected order: %s, %s", result.Items[0].URL, result.Items[1].URL)
	}
}

func TestTopStepZeroSortsOnly(t *testing.T) {
	candidates := &sourcing.Candidates{Items: []*sourcing.Candidate{
		scored("u1", 3.0),
		scored("u2", 9.0),
	}}

	result, stats, err := NewTop(0).Apply(context.Background(), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if stats.Dropped != 0 || result.Len() != 2 {
		t.Fatalf("expected no candidates dropped, stats: %+v", stats)
	}
	if result.Items[0].URL != "u2" {
		t.Fatalf("expected the list sorted by score, got %s first", result.Items[0].URL)
	}
}

func TestRunWrapsStepErrors(t *testing.T) {
	steps := []Step{NewScore(nil, "job")}

	_, err := New(steps, nil).Run(context.Background(), &sourcing.Candidates{})
	if err == nil {
		t.Fatalf("expected an error from the score step without a pool")
	}
	if got := err.Error(); got != "score: scoring pool is required" {
		t.Fatalf("unexpected error: %q", got)
	}
}

func TestRunSkipsDisabledSteps(t *testing.T) {
	step := NewThreshold(5.0)
	step.Disable("testing")

	candidates := &sourcing.Candidates{Items: []*sourcing.Candidate{scored("low", 1.0)}}

	result, err := New([]Step{step}, nil).Run(context.Background(), candidates)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if result.Len() != 1 {
		t.Fatalf("a disabled step must not drop candidates, got %d left", result.Len())
	}
}
