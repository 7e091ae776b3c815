package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

const outreachJob = "Senior Backend Engineer at Acme\n\nWe build payment infrastructure in Go."

func TestComposeUsesGeneratorResponse(t *testing.T) {
	generator := &stubGenerator{response: "Hi [Candidate Name], saw your Go work.\n\n[Your Name]"}
	writer := NewWriter(generator, nil)

	message := writer.Compose(context.Background(), outreachJob, testCandidate())

	if strings.Contains(message, "[Candidate Name]") || strings.Contains(message, "[Your Name]") {
		t.Fatalf("placeholder brackets must be stripped: %q", message)
	}
	if !strings.Contains(message, "Jane Doe") {
		t.Fatalf("expected the candidate name substituted, got %q", message)
	}

	if len(generator.prompts) != 1 {
		t.Fatalf("expected a single generation call, got %d", len(generator.prompts))
	}
	if !strings.Contains(generator.prompts[0], "Senior Backend Engineer") {
		t.Fatalf("prompt must carry the candidate headline")
	}
}

func TestComposeFallsBackOnGeneratorError(t *testing.T) {
	generator := &stubGenerator{err: errors.New("model unavailable")}
	writer := NewWriter(generator, nil)

	message := writer.Compose(context.Background(), outreachJob, testCandidate())

	if message != TemplateMessage(outreachJob, testCandidate()) {
		t.Fatalf("expected the template fallback, got %q", message)
	}
}

func TestTemplateMessage(t *testing.T) {
	message := TemplateMessage(outreachJob, testCandidate())

	if !strings.HasPrefix(message, "Hi Jane Doe,") {
		t.Fatalf("unexpected greeting: %q", message)
	}
	if !strings.Contains(message, "Senior Backend Engineer") {
		t.Fatalf("expected the headline in the message: %q", message)
	}
	if !strings.Contains(message, "Acme") {
		t.Fatalf("expected the company in the message: %q", message)
	}
	if !strings.Contains(message, "Senior Backend Engineer at Acme") {
		t.Fatalf("expected the role line from the job description: %q", message)
	}
}

func TestTemplateMessageAnonymousCandidate(t *testing.T) {
	candidate := &sourcing.Candidate{Name: "Profile User", URL: "https://linkedin.com/in/x"}

	message := TemplateMessage("a one-line job", candidate)

	if !strings.HasPrefix(message, "Hi there,") {
		t.Fatalf("expected the neutral greeting for a placeholder name: %q", message)
	}
	if !strings.Contains(message, "a a one-line job position") {
		t.Fatalf("expected the role fallback, got %q", message)
	}
}
