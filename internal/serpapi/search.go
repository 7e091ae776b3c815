package serpapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/recruitsense/li-sourcer/internal/sourcing"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	searchEngine = "google"
	// Max results SerpAPI returns for a single google query page.
	maxNum = 100
)

type SearchParams struct {
	// Queries are executed in order; results are merged and deduplicated.
	Queries []string
	// Num is the requested result count per query.
	Num int
	// Domain restricts results to links containing this fragment,
	// e.g. "linkedin.com/in".
	Domain string
}

type organicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

// Search executes all queries and returns the merged candidate list,
// deduplicated by URL. A failed query is logged and skipped so quota
// exhaustion mid-run degrades to fewer candidates instead of an error.
func (c *Client) Search(params *SearchParams) *sourcing.Candidates {
	candidates := &sourcing.Candidates{}
	seen := make(map[string]bool)

	num := params.Num
	if num <= 0 || num > maxNum {
		num = maxNum
	}

	for i, query := range params.Queries {
		results, err := c.searchQuery(query, num)
		if err != nil {
			c.logger.Warn("search query failed",
				zap.Int("query_index", i),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}

		for _, result := range results {
			if params.Domain != "" && !strings.Contains(result.Link, params.Domain) {
				continue
			}
			if seen[result.Link] {
				continue
			}
			seen[result.Link] = true

			candidates.Items = append(candidates.Items, sourcing.ParseSearchResult(result.Title, result.Link, result.Snippet))
		}

		c.logger.Debug("search query done",
			zap.Int("query_index", i),
			zap.Int("results", len(results)),
			zap.Int("candidates_total", candidates.Len()),
		)
	}

	return candidates
}

func (c *Client) searchQuery(query string, num int) ([]*organicResult, error) {
	q := c.baseQuery()
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))

	var raw struct {
		OrganicResults []map[string]any `json:"organic_results"`
		Error          string           `json:"error"`
	}

	if err := c.getJSON(c.APIURL, q, &raw); err != nil {
		return nil, err
	}

	if raw.Error != "" {
		return nil, &APIError{Message: raw.Error}
	}

	var results []*organicResult
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &results,
		TagName:  "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(raw.OrganicResults); err != nil {
		return nil, err
	}

	return results, nil
}

func (c *Client) baseQuery() url.Values {
	q := url.Values{}
	q.Set("engine", searchEngine)
	q.Set("api_key", c.apiKey)
	return q
}

// APIError is an error reported inside an otherwise successful SerpAPI
// response body.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "serpapi: " + e.Message
}
