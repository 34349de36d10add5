package widget

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/lhung/web-widgets/config"
)

// stubFetcher serves canned XML documents keyed by URL substring. Routes are
// matched in registration order; unmatched URLs fail the fetch.
type stubFetcher struct {
	t      *testing.T
	routes []stubRoute

	mu      sync.Mutex
	fetched []string
}

type stubRoute struct {
	match string
	body  string
	err   error
}

func newStubFetcher(t *testing.T) *stubFetcher {
	t.Helper()

	return &stubFetcher{t: t}
}

func (f *stubFetcher) respond(match, body string) *stubFetcher {
	f.routes = append(f.routes, stubRoute{match: match, body: body})
	return f
}

func (f *stubFetcher) fail(match string, err error) *stubFetcher {
	f.routes = append(f.routes, stubRoute{match: match, err: err})
	return f
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string, _ map[string]string) (*etree.Document, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, rawURL)
	f.mu.Unlock()

	for _, r := range f.routes {
		if !strings.Contains(rawURL, r.match) {
			continue
		}

		if r.err != nil {
			return nil, r.err
		}

		return parseDoc(f.t, r.body), nil
	}

	f.t.Fatalf("no stub route for %s", rawURL)
	return nil, nil
}

func (f *stubFetcher) urls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.fetched))
	copy(out, f.fetched)
	return out
}

func parseDoc(t *testing.T, body string) *etree.Document {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(body))
	return doc
}

func testConfig() *config.Config {
	cfg := &config.Config{
		OffersAPIURL:       "http://offers.test/search?",
		ProfileAPIURL:      "http://profile.test/lookup?",
		ReviewsAPIURL:      "http://reviews.test/search?",
		APIKey:             "test-key",
		OwnDomain:          "citysearch.com",
		TrackingBaseURL:    "http://track.test/ad?",
		CouponBaseURL:      "http://coupon.test/print?",
		ResultsPerPage:     5,
		DefaultDisplaySize: 2,
		EnrichConcurrency:  4,
		ReviewDateLayout:   "2006-01-02",
		MinReviewRating:    6,
	}

	cfg.SetLimit("default.name", 30)
	cfg.SetLimit("default.title", 40)
	cfg.SetLimit("default.description", 75)
	cfg.SetLimit("default.reviewTitle", 35)
	cfg.SetLimit("default.reviewText", 120)
	cfg.SetLimit("default.reviewTextSmall", 60)
	cfg.SetLimit("default.pros", 30)
	cfg.SetLimit("default.cons", 30)

	return cfg
}
