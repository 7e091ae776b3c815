package keywords

import (
	"fmt"
	"strings"
)

// Terms holds the search terms extracted from a job description.
type Terms struct {
	Title     string
	Seniority string
	Skills    []string
	Location  string
}

// titlePatterns maps indicator substrings to a canonical search title. Order
// matters: the first matching group wins.
var titlePatterns = []struct {
	indicators []string
	title      string
}{
	{[]string{"machine learning", "ml engineer", "ai engineer"}, "machine learning engineer"},
	{[]string{"data scientist", "data science"}, "data scientist"},
	{[]string{"backend engineer", "backend developer"}, "backend engineer"},
	{[]string{"frontend engineer", "frontend developer"}, "frontend engineer"},
	{[]string{"full stack", "fullstack"}, "full stack engineer"},
	{[]string{"devops", "platform engineer"}, "devops engineer"},
	{[]string{"product manager"}, "product manager"},
}

var skillKeywords = []string{
	"python", "java", "javascript", "typescript", "go", "rust", "c++",
	"react", "node.js", "django", "flask", "spring", "aws", "gcp", "azure",
	"kubernetes", "docker", "tensorflow", "pytorch", "ml", "ai", "nlp",
	"sql", "postgresql", "mongodb", "redis", "elasticsearch",
}

var knownLocations = []string{
	"san francisco", "mountain view", "palo alto", "san jose", "berkeley",
	"new york", "seattle", "austin", "boston", "chicago", "remote",
}

// Extract derives search terms from a job description. An empty description
// yields empty terms, which in turn build zero queries.
func Extract(jobDescription string) *Terms {
	terms := &Terms{}

	text := strings.ToLower(strings.TrimSpace(jobDescription))
	if text == "" {
		return terms
	}

	terms.Title = "software engineer"
	for _, group := range titlePatterns {
		if containsAny(text, group.indicators) {
			terms.Title = group.title
			break
		}
	}

	switch {
	case containsAny(text, []string{"senior", "sr.", "lead", "principal", "staff"}):
		terms.Seniority = "senior"
	case containsAny(text, []string{"junior", "entry", "new grad"}):
		terms.Seniority = "junior"
	}

	for _, skill := range skillKeywords {
		if containsWord(text, skill) {
			terms.Skills = append(terms.Skills, skill)
		}
	}

	for _, location := range knownLocations {
		if strings.Contains(text, location) {
			terms.Location = location
			break
		}
	}

	return terms
}

// Empty reports whether no terms were extracted at all.
func (t *Terms) Empty() bool {
	return t.Title == "" && t.Seniority == "" && len(t.Skills) == 0 && t.Location == ""
}

// Keywords returns the flat ordered keyword list derived from the terms.
func (t *Terms) Keywords() []string {
	var keywords []string
	if t.Seniority != "" {
		keywords = append(keywords, t.Seniority)
	}
	if t.Title != "" {
		keywords = append(keywords, strings.Fields(t.Title)...)
	}
	keywords = append(keywords, t.Skills...)
	if t.Location != "" {
		keywords = append(keywords, t.Location)
	}
	return keywords
}

// BuildQueries produces search queries restricted to the given site, at most
// max entries. The query strategies mirror each other in specificity: title
// with location, title with seniority, title with top skills, then a bare
// title fallback.
func (t *Terms) BuildQueries(site string, max int) []string {
	if t.Empty() || max <= 0 {
		return nil
	}

	var queries []string

	if t.Location != "" {
		queries = append(queries, fmt.Sprintf("site:%s %q %q", site, t.Title, t.Location))
	}

	if t.Seniority != "" {
		queries = append(queries, fmt.Sprintf("site:%s %q", site, t.Seniority+" "+t.Title))
	}

	if len(t.Skills) > 0 {
		top := t.Skills
		if len(top) > 2 {
			top = top[:2]
		}
		quoted := make([]string, 0, len(top))
		for _, skill := range top {
			quoted = append(quoted, fmt.Sprintf("%q", skill))
		}
		queries = append(queries, fmt.Sprintf("site:%s %q %s", site, t.Title, strings.Join(quoted, " ")))
	}

	if len(queries) == 0 {
		queries = append(queries, fmt.Sprintf("site:%s %q", site, t.Title))
	}

	if len(queries) > max {
		queries = queries[:max]
	}

	return queries
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// containsWord matches short skill tokens on word boundaries so that "go"
// does not fire on "goal" or "django". Longer phrases match as substrings.
func containsWord(text, word string) bool {
	if len(word) > 3 || strings.ContainsAny(word, ".+") {
		return strings.Contains(text, word)
	}

	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '#')
	}) {
		if token == word {
			return true
		}
	}
	return false
}
