package upwork

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIURL = "http://localhost:3001"
	userAgent     = "leadspark/upwork-radar"

	requestTimeout = 10 * time.Second
	// pingTimeout bounds the liveness probe so a dead proxy cannot hang
	// the dashboard status.
	pingTimeout = 5 * time.Second
)

// Client talks to the job-listing proxy. The proxy is an opaque
// collaborator: it accepts a keyword list and returns batches of raw job
// records scraped from the marketplace feeds.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(logger *zap.Logger, apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		UserAgent: userAgent,
		APIURL:    apiURL,
	}
}

// Ping probes the proxy base endpoint. A non-2xx status or any transport
// error means the proxy is considered offline.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.Status}
	}
	return nil
}
