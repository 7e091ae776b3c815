// Package scoring provides the local rubric-based matcher and the concurrent
// scoring pool.
package scoring

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/recruitsense/li-sourcer/internal/ai"
	"github.com/recruitsense/li-sourcer/internal/keywords"
	"github.com/recruitsense/li-sourcer/internal/sourcing"
)

// Rubric weights. Experience match carries the most weight since the snippet
// is the only reliable signal in a search result.
var weights = map[string]float64{
	"education":  0.20,
	"trajectory": 0.20,
	"company":    0.15,
	"experience": 0.25,
	"location":   0.10,
	"tenure":     0.10,
}

var eliteSchools = []string{
	"mit", "stanford", "harvard", "yale", "princeton", "columbia",
	"berkeley", "caltech", "carnegie mellon", "cornell", "upenn",
	"oxford", "cambridge", "eth zurich", "imperial college", "georgia tech",
	"cmu", "university of california", "uc berkeley", "uc san diego",
}

var topTechCompanies = []string{
	"google", "facebook", "meta", "amazon", "apple", "microsoft",
	"netflix", "uber", "airbnb", "stripe", "openai", "anthropic",
	"tesla", "spacex", "nvidia", "salesforce", "databricks", "palantir",
	"github", "gitlab", "atlassian", "slack", "zoom", "dropbox",
}

var metroAreas = map[string][]string{
	"san francisco": {"sf", "san francisco", "bay area", "palo alto", "mountain view", "san jose"},
	"new york":      {"nyc", "new york", "manhattan", "brooklyn"},
	"seattle":       {"seattle", "bellevue", "redmond"},
	"boston":        {"boston", "cambridge"},
	"los angeles":   {"la", "los angeles", "santa monica"},
}

// Rubric scores candidates locally with a weighted heuristic rubric. It
// implements ai.Matcher and needs no external service.
type Rubric struct {
	minScore float64
}

func NewRubric(minScore float64) *Rubric {
	return &Rubric{minScore: minScore}
}

func (r *Rubric) Evaluate(_ context.Context, jobDescription string, candidate *sourcing.Candidate) (*ai.FitAssessment, error) {
	if candidate == nil {
		return nil, fmt.Errorf("candidate is required")
	}

	terms := keywords.Extract(jobDescription)
	profile := strings.ToLower(candidate.Headline + " " + candidate.Snippet)

	breakdown := map[string]float64{
		"education":  scoreEducation(profile),
		"trajectory": scoreTrajectory(profile),
		"company":    scoreCompany(strings.ToLower(candidate.Company) + " " + profile),
		"experience": scoreExperience(profile, terms.Skills),
		"location":   scoreLocation(strings.ToLower(candidate.Location), terms.Location),
		"tenure":     scoreTenure(profile),
	}

	var score float64
	for key, weight := range weights {
		score += breakdown[key] * weight
	}

	return &ai.FitAssessment{
		Fit:       score >= r.minScore,
		Score:     score,
		Breakdown: breakdown,
		Reason:    topFactors(breakdown),
	}, nil
}

func scoreEducation(text string) float64 {
	for _, school := range eliteSchools {
		if strings.Contains(text, school) {
			return 9.5
		}
	}

	strong := []string{"university", "college", "institute of technology", "phd", "doctorate", "master"}
	if !containsAny(text, strong) {
		return 5.5
	}

	switch {
	case containsAny(text, []string{"phd", "ph.d", "doctorate"}):
		return 8.5
	case containsAny(text, []string{"master", "mba", "m.s."}):
		return 7.5
	default:
		return 7.0
	}
}

func scoreTrajectory(text string) float64 {
	switch {
	case containsAny(text, []string{"principal", "staff", "lead", "senior", "director", "head", "vp", "cto", "chief"}):
		return 8.5
	case containsAny(text, []string{" mid ", " ii ", " iii ", "intermediate"}):
		return 7.0
	case containsAny(text, []string{"junior", "entry", "intern", "associate", "new grad"}):
		return 4.0
	default:
		return 6.0
	}
}

func scoreCompany(text string) float64 {
	for _, company := range topTechCompanies {
		if strings.Contains(text, company) {
			return 9.5
		}
	}

	relevant := []string{
		"tech", "software", "ai", "ml", "fintech", "startup", "saas",
		"cloud", "data", "analytics", "platform", "engineering",
	}
	if containsAny(text, relevant) {
		return 7.5
	}

	return 5.5
}

// scoreExperience measures skill overlap between the job description and the
// candidate text. Multi-word skills tolerate spelling variation via fuzzy
// matching.
func scoreExperience(text string, skills []string) float64 {
	if len(skills) == 0 {
		return 4.0
	}

	matches := 0
	for _, skill := range skills {
		if strings.Contains(text, skill) {
			matches++
			continue
		}
		if len(skill) > 4 && fuzzy.MatchNormalizedFold(skill, text) {
			matches++
		}
	}

	ratio := float64(matches) / float64(len(skills))
	switch {
	case ratio >= 0.8:
		return 9.5
	case ratio >= 0.5:
		return 7.5
	case ratio >= 0.2:
		return 5.5
	default:
		return 4.0
	}
}

func scoreLocation(candidateLocation, jobLocation string) float64 {
	if jobLocation != "" && candidateLocation != "" && strings.Contains(candidateLocation, jobLocation) {
		return 10.0
	}

	for _, cities := range metroAreas {
		if containsAny(jobLocation, cities) && containsAny(candidateLocation, cities) {
			return 8.0
		}
	}

	if strings.Contains(candidateLocation, "remote") || strings.Contains(jobLocation, "remote") {
		return 6.0
	}

	return 5.0
}

func scoreTenure(text string) float64 {
	if containsAny(text, []string{"2 years", "3 years", "two years", "three years", "2-3 years"}) {
		return 9.0
	}

	if containsAny(text, []string{"1 year", "one year", "1-2 years"}) {
		return 7.0
	}

	if containsAny(text, []string{"6 months", "3 months", "contract", "freelance"}) {
		return 3.5
	}

	return 6.5
}

func topFactors(breakdown map[string]float64) string {
	type factor struct {
		name  string
		score float64
	}

	factors := make([]factor, 0, len(breakdown))
	for name, score := range breakdown {
		factors = append(factors, factor{name, score})
	}
	sort.Slice(factors, func(i, j int) bool {
		if factors[i].score != factors[j].score {
			return factors[i].score > factors[j].score
		}
		return factors[i].name < factors[j].name
	})

	if len(factors) > 2 {
		factors = factors[:2]
	}

	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, fmt.Sprintf("%s %.1f", f.name, f.score))
	}

	return "strongest factors: " + strings.Join(parts, ", ")
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
