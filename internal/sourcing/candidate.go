package sourcing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Candidate is a search result hypothesized to be a public profile page,
// enriched with an assessment once scored.
type Candidate struct {
	Name     string `json:"name,omitempty"`
	URL      string `json:"url,omitempty"`
	Headline string `json:"headline,omitempty"`
	Location string `json:"location,omitempty"`
	Company  string `json:"company,omitempty"`
	Snippet  string `json:"snippet,omitempty"`

	AI *Assessment `json:"ai,omitempty"`
}

// Assessment holds the scoring outcome for a candidate. Error is set instead
// of the other fields when scoring failed for this candidate.
type Assessment struct {
	Fit       bool               `json:"fit"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	Reason    string             `json:"reason,omitempty"`
	Message   string             `json:"message,omitempty"`
	Raw       string             `json:"raw,omitempty"`
	Error     string             `json:"error,omitempty"`
}

type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) FindByURL(url string) *Candidate {
	for _, candidate := range c.Items {
		if candidate.URL == url {
			return candidate
		}
	}
	return nil
}

// Score returns the candidate's score, or zero when it was never assessed.
func (ca *Candidate) Score() float64 {
	if ca.AI == nil {
		return 0
	}
	return ca.AI.Score
}

// Dedupe removes candidates sharing a URL with an earlier entry, preserving
// order, and returns the removed URLs.
func (c *Candidates) Dedupe() []string {
	seen := make(map[string]bool, len(c.Items))
	kept := make([]*Candidate, 0, len(c.Items))

	var removed []string
	for _, candidate := range c.Items {
		if seen[candidate.URL] {
			removed = append(removed, candidate.URL)
			continue
		}
		seen[candidate.URL] = true
		kept = append(kept, candidate)
	}

	c.Items = kept
	return removed
}

// SortByScore orders candidates by descending score. The sort is stable so
// equally scored candidates keep their search order.
func (c *Candidates) SortByScore() {
	sort.SliceStable(c.Items, func(i, j int) bool {
		return c.Items[i].Score() > c.Items[j].Score()
	})
}

// Top truncates the list to at most n candidates and returns the URLs of the
// dropped ones. The list is expected to be sorted already.
func (c *Candidates) Top(n int) []string {
	if n < 0 || n >= len(c.Items) {
		return nil
	}

	var dropped []string
	for _, candidate := range c.Items[n:] {
		dropped = append(dropped, candidate.URL)
	}
	c.Items = c.Items[:n]
	return dropped
}

func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups candidate summaries by their current company.
func (c *Candidates) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, candidate := range c.Items {
		key := candidate.Company
		if key == "" {
			key = "unknown"
		}

		entry := map[string]string{
			"name":     candidate.Name,
			"url":      candidate.URL,
			"headline": candidate.Headline,
			"location": candidate.Location,
		}

		if candidate.AI != nil {
			if candidate.AI.Error != "" {
				entry["ai_error"] = candidate.AI.Error
			} else {
				entry["score"] = fmt.Sprintf("%.1f", candidate.AI.Score)
				entry["reason"] = candidate.AI.Reason
			}
		}

		report[key] = append(report[key], entry)
	}
	return report
}
