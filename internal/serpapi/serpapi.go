// Package serpapi implements a minimal SerpAPI client for sourcing public
// profile URLs via Google search.
package serpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://serpapi.com/search"
	userAgent = "li-sourcer (github.com/recruitsense/li-sourcer)"

	// Free-tier quotas are tight; one request per second is plenty for a
	// handful of queries per run.
	defaultRatePerSecond = 1
	defaultBurst         = 1
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	apiKey     string
	logger     *zap.Logger
	limiter    *rate.Limiter
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, apiKey string) *Client {
	return &Client{
		ctx:     ctx,
		apiKey:  apiKey,
		APIURL:  apiURL,
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultBurst),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// SetRate replaces the default request limiter.
func (c *Client) SetRate(perSecond float64, burst int) {
	if perSecond <= 0 || burst <= 0 {
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}
