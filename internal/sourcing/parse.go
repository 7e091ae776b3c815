package sourcing

import (
	"strings"
	"unicode"
)

// ParseSearchResult converts a raw search hit (title, link, snippet) into a
// Candidate. Profile pages rendered by search engines follow a handful of
// title patterns; the URL slug is the fallback source for the name.
func ParseSearchResult(title, link, snippet string) *Candidate {
	name := "Unknown"
	headline := ""

	switch {
	case strings.Contains(title, " - ") && strings.Contains(title, "LinkedIn"):
		// "Name - Title | LinkedIn"
		parts := strings.SplitN(title, " - ", 2)
		name = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			headline = strings.TrimSpace(strings.SplitN(parts[1], "| LinkedIn", 2)[0])
		}
	case strings.Contains(title, " | LinkedIn"):
		// "Name | LinkedIn"
		name = strings.TrimSpace(strings.SplitN(title, " | LinkedIn", 2)[0])
	case strings.Contains(title, "LinkedIn"):
		name = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "LinkedIn", ""), "|", ""))
	}

	if name == "Unknown" || name == "" || name == "View profile" || name == "LinkedIn" {
		name = NameFromURL(link)
	}

	location := ""
	for _, marker := range []string{"Location:", "Based in"} {
		if idx := strings.Index(snippet, marker); idx >= 0 {
			rest := snippet[idx+len(marker):]
			location = strings.TrimSpace(cutAny(rest, ".", "•"))
			break
		}
	}

	company := ""
	if idx := strings.Index(snippet, " at "); idx >= 0 {
		company = strings.TrimSpace(cutAny(snippet[idx+4:], ".", "•"))
		if len(company) > 50 {
			company = company[:50]
		}
	}

	if headline == "" && snippet != "" {
		headline = cutAny(snippet, ".")
		if len(headline) > 100 {
			headline = headline[:100]
		}
	}

	return &Candidate{
		Name:     name,
		URL:      link,
		Headline: headline,
		Location: location,
		Company:  company,
		Snippet:  snippet,
	}
}

// NameFromURL guesses a display name from a profile URL slug like
// "/in/jane-doe-123".
func NameFromURL(link string) string {
	const marker = "linkedin.com/in/"

	idx := strings.Index(link, marker)
	if idx < 0 {
		return "Profile User"
	}

	slug := strings.Trim(link[idx+len(marker):], "/")
	if q := strings.IndexByte(slug, '?'); q >= 0 {
		slug = slug[:q]
	}
	if slug == "" {
		return "Profile User"
	}

	parts := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})

	words := make([]string, 0, len(parts))
	for _, part := range parts {
		// Trailing numeric disambiguators are not part of the name.
		if isDigits(part) {
			continue
		}
		words = append(words, capitalize(part))
	}

	if len(words) == 0 {
		return "Profile User"
	}

	return strings.Join(words, " ")
}

func cutAny(s string, separators ...string) string {
	for _, sep := range separators {
		if idx := strings.Index(s, sep); idx >= 0 {
			s = s[:idx]
		}
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
