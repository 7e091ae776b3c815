package serpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(context.Background(), zap.NewNop(), "test-key")
	client.APIURL = server.URL
	client.SetRate(1000, 1000)

	return client
}

func TestSearchDedupesAndFiltersDomain(t *testing.T) {
	response := map[string]any{
		"organic_results": []map[string]any{
			{
				"position": 1,
				"title":    "Jane Doe - Senior Backend Engineer | LinkedIn",
				"link":     "https://linkedin.com/in/jane-doe",
				"snippet":  "5 years Go and Kubernetes experience",
			},
			{
				"position": 2,
				"title":    "Jobs board",
				"link":     "https://example.com/jobs",
				"snippet":  "unrelated",
			},
			{
				"position": 3,
				"title":    "Jane Doe - Senior Backend Engineer | LinkedIn",
				"link":     "https://linkedin.com/in/jane-doe",
				"snippet":  "duplicate entry",
			},
		},
	}

	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Fatalf("expected api key in query, got %q", got)
		}
		if got := r.URL.Query().Get("engine"); got != "google" {
			t.Fatalf("expected google engine, got %q", got)
		}
		json.NewEncoder(w).Encode(response)
	})

	candidates := client.Search(&SearchParams{
		Queries: []string{`site:linkedin.com/in "backend engineer"`, `site:linkedin.com/in "senior backend engineer"`},
		Num:     15,
		Domain:  "linkedin.com/in",
	})

	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}

	if candidates.Len() != 1 {
		t.Fatalf("expected 1 deduplicated candidate, got %d", candidates.Len())
	}

	candidate := candidates.Items[0]
	if candidate.URL != "https://linkedin.com/in/jane-doe" {
		t.Fatalf("unexpected url: %s", candidate.URL)
	}
	if candidate.Name != "Jane Doe" {
		t.Fatalf("unexpected name: %s", candidate.Name)
	}
	if candidate.Snippet != "5 years Go and Kubernetes experience" {
		t.Fatalf("expected the first occurrence to win, got %q", candidate.Snippet)
	}
}

func TestSearchFailedQueryIsSkipped(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]any{
				{
					"position": 1,
					"title":    "John Roe | LinkedIn",
					"link":     "https://linkedin.com/in/john-roe",
					"snippet":  "Barista with 2 years experience",
				},
			},
		})
	})

	candidates := client.Search(&SearchParams{
		Queries: []string{"first query", "second query"},
		Domain:  "linkedin.com/in",
	})

	if requests != 2 {
		t.Fatalf("expected both queries attempted, got %d requests", requests)
	}
	if candidates.Len() != 1 {
		t.Fatalf("expected candidates from the surviving query, got %d", candidates.Len())
	}
}

func TestSearchAPIErrorYieldsZeroCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": "Your account has run out of searches.",
		})
	})

	candidates := client.Search(&SearchParams{
		Queries: []string{"only query"},
		Domain:  "linkedin.com/in",
	})

	if candidates.Len() != 0 {
		t.Fatalf("expected zero candidates on quota exhaustion, got %d", candidates.Len())
	}
}
