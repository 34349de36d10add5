// Package tracking builds the outbound click-tracking redirect URLs embedded
// in widget view models.
package tracking

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidDisplayURL is returned when the destination URL cannot be parsed.
// It is not expected in normal operation since destinations are internally
// constructed, so callers treat it as fatal for the request.
var ErrInvalidDisplayURL = errors.New("tracking: invalid display url")

// Product detail ids distinguishing clicks that stay on our own properties
// from clicks leaving them.
const (
	productOnSite  = 16
	productOffSite = 12
)

// URLParams are the inputs to a single tracking URL.
type URLParams struct {
	// DestinationURL is where the click ultimately lands; its host decides
	// the product detail id.
	DestinationURL string
	// DartTrackingURL, when set, is the DART click template the destination
	// is appended to; the combined value becomes the encoded directUrl
	// parameter. When empty the parameter is omitted.
	DartTrackingURL string
	ListingID       string
	Publisher       string
	AdUnitName      string
	AdUnitSize      string
}

// Builder constructs tracking URLs against a fixed redirect endpoint.
type Builder struct {
	baseURL   string
	ownDomain string
}

// NewBuilder returns a Builder. baseURL must end in "?" or "&" so parameters
// can be appended directly.
func NewBuilder(baseURL, ownDomain string) *Builder {
	return &Builder{baseURL: baseURL, ownDomain: ownDomain}
}

// URL builds the tracking redirect URL for p.
func (b *Builder) URL(p URLParams) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(p.DestinationURL))
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidDisplayURL, p.DestinationURL)
	}

	productID := productOffSite
	if strings.Contains(parsed.Host, b.ownDomain) {
		productID = productOnSite
	}

	params := make([]string, 0, 5)

	if p.DartTrackingURL != "" {
		params = append(params, "directUrl="+url.QueryEscape(p.DartTrackingURL+p.DestinationURL))
	}

	params = append(params,
		"listingId="+url.QueryEscape(p.ListingID),
		"publisher="+url.QueryEscape(p.Publisher),
		"prodDetId="+strconv.Itoa(productID),
		"placement="+url.QueryEscape(p.Publisher+"_"+p.AdUnitName+"_"+p.AdUnitSize),
	)

	return b.baseURL + strings.Join(params, "&"), nil
}

// CallbackFunction rewrites a caller-supplied javascript callback name into
// an invocation embedding the listing id and phone number.
func CallbackFunction(fn, listingID, phone string) string {
	fn = strings.TrimSpace(fn)
	if fn == "" {
		return ""
	}

	return fmt.Sprintf("%s('%s','%s');", fn, listingID, phone)
}
