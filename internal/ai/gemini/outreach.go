package gemini

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"github.com/recruitsense/li-sourcer/internal/sourcing"
	"go.uber.org/zap"
)

//go:embed outreach.md
var outreachTemplate string

// Writer composes personalized outreach messages for scored candidates.
type Writer struct {
	generator contentGenerator
	logger    *zap.Logger
}

func NewWriter(generator contentGenerator, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{generator: generator, logger: log}
}

// Compose asks the model for a personalized message, falling back to the
// deterministic template when the model call fails.
func (w *Writer) Compose(ctx context.Context, jobDescription string, candidate *sourcing.Candidate) string {
	if w.generator == nil {
		return TemplateMessage(jobDescription, candidate)
	}

	prompt := buildOutreachPrompt(jobDescription, candidate)

	message, err := w.generator.GenerateContent(ctx, prompt)
	if err != nil {
		w.logger.Warn("outreach generation failed, using template message",
			zap.String("candidate_url", candidate.URL),
			zap.Error(err),
		)
		return TemplateMessage(jobDescription, candidate)
	}

	// Some models keep placeholder brackets despite instructions.
	message = strings.ReplaceAll(message, "[Candidate Name]", displayName(candidate))
	message = strings.ReplaceAll(message, "[Your Name]", "")
	message = strings.ReplaceAll(message, "[Your Title]", "")

	return strings.TrimSpace(message)
}

func buildOutreachPrompt(jobDescription string, candidate *sourcing.Candidate) string {
	name := displayName(candidate)
	headline := candidate.Headline
	if headline == "" {
		headline = "Software Engineer"
	}
	company := candidate.Company
	if company == "" {
		company = "N/A"
	}

	prompt := strings.ReplaceAll(outreachTemplate, "{{NAME}}", name)
	prompt = strings.ReplaceAll(prompt, "{{HEADLINE}}", headline)
	prompt = strings.ReplaceAll(prompt, "{{COMPANY}}", company)
	prompt = strings.ReplaceAll(prompt, "{{SCORE}}", fmt.Sprintf("%.1f", candidate.Score()))
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", jobDescription)
	return prompt
}

// TemplateMessage builds the deterministic fallback message used when no AI
// generator is available.
func TemplateMessage(jobDescription string, candidate *sourcing.Candidate) string {
	name := displayName(candidate)
	headline := candidate.Headline
	if headline == "" {
		headline = "software engineer"
	}
	company := candidate.Company
	if company == "" {
		company = "your current company"
	}

	role := extractRole(jobDescription)

	return fmt.Sprintf(`Hi %s,

I noticed your background as a %s and was impressed by your experience at %s.

We're hiring for %s. Given your background and skills, I think you'd be a great fit for this opportunity.

Would you be open to a brief chat about this role?

Best regards`, name, headline, company, role)
}

func displayName(candidate *sourcing.Candidate) string {
	name := strings.TrimSpace(candidate.Name)
	if name == "" || name == "Unknown" || name == "Profile User" {
		return "there"
	}
	return name
}

// extractRole pulls a short role description from the first lines of the job
// description, e.g. "Senior Backend Engineer at Acme".
func extractRole(jobDescription string) string {
	lines := strings.Split(jobDescription, "\n")
	limit := 3
	if len(lines) < limit {
		limit = len(lines)
	}

	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line != "" && strings.Contains(line, " at ") {
			return line
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			return "a " + line + " position"
		}
	}

	return "an exciting opportunity"
}
