// Package upstream implements the HTTP client used to call the XML APIs
// (offers, profile, reviews). It fetches a URL, parses the body into an XML
// document tree and classifies failures; retry policy belongs to callers.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

var (
	// ErrUnavailable covers transport errors and non-2xx upstream responses.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrMalformed covers bodies that cannot be parsed as well-formed XML.
	ErrMalformed = errors.New("malformed upstream response")
)

// Client performs GET requests against the upstream APIs. It never retries.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client with a per-call timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch performs a GET against rawURL with the optional headers passed
// through unmodified, and returns the parsed XML document.
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) (*etree.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.String("url", rawURL), zap.Error(err))

		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("upstream returned non-success status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)

		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		c.logger.Warn("upstream body is not valid xml", zap.String("url", rawURL), zap.Error(err))

		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return doc, nil
}
