package widget

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Upstream API field names.
const (
	paramAPIKey            = "api_key"
	paramPublisher         = "publisher"
	paramRPP               = "rpp"
	paramClientIP          = "client_ip"
	paramWhat              = "what"
	paramWhere             = "where"
	paramLatitude          = "latitude"
	paramLongitude         = "longitude"
	paramRadius            = "radius"
	paramTag               = "tag"
	paramExpiresBefore     = "expiresBefore"
	paramCustomerHasBudget = "customerHasbudget"
	paramCustomerOnly      = "customer_only"
	paramCallback          = "callback"
	paramListingID         = "listing_id"
	paramRating            = "rating"
	paramDays              = "days"
	paramMax               = "max"
	paramPlacement         = "placement"
)

// publisherHeader carries the publisher identity on offers API calls.
const publisherHeader = "X-Publisher"

// queryParam renders one key=value pair, trimming and percent-encoding the
// value.
func queryParam(key, value string) string {
	return key + "=" + url.QueryEscape(strings.TrimSpace(value))
}

// appendParam adds a pair only when the value is non-blank.
func appendParam(pairs []string, key, value string) []string {
	if strings.TrimSpace(value) == "" {
		return pairs
	}

	return append(pairs, queryParam(key, value))
}

// normalizeRadius re-expresses a radius as the whole-mile string the upstream
// accepts, clamped to [1,25]. Returns "" for non-numeric input.
func normalizeRadius(raw string) string {
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return ""
	}

	miles := int(math.Round(val))
	if miles < 1 {
		miles = 1
	}

	if miles > 25 {
		miles = 25
	}

	return strconv.Itoa(miles)
}

// offersQuery builds the offers API query string. Emission order is fixed so
// identical requests always produce identical query strings.
func (s *Service) offersQuery(req *offerQueryInput) string {
	pairs := []string{
		queryParam(paramRPP, strconv.Itoa(s.cfg.ResultsPerPage)),
		queryParam(paramClientIP, req.ClientIP),
	}

	pairs = appendParam(pairs, paramWhat, req.What)

	if req.hasCoordinates {
		pairs = append(pairs,
			queryParam(paramLatitude, req.Latitude),
			queryParam(paramLongitude, req.Longitude),
		)
	} else {
		pairs = append(pairs, queryParam(paramWhere, req.Where))
	}

	pairs = appendParam(pairs, paramTag, req.Tag)
	pairs = appendParam(pairs, paramExpiresBefore, req.ExpiresBefore)
	pairs = appendParam(pairs, paramCustomerHasBudget, req.CustomerHasBudget)
	pairs = appendParam(pairs, paramRadius, normalizeRadius(req.Radius))
	pairs = appendParam(pairs, paramCallback, req.CallBackFunction)

	return strings.Join(pairs, "&")
}

// offerQueryInput is the slice of request fields the offers query needs.
type offerQueryInput struct {
	ClientIP          string
	What              string
	Where             string
	Latitude          string
	Longitude         string
	Radius            string
	Tag               string
	ExpiresBefore     string
	CustomerHasBudget string
	CallBackFunction  string
	hasCoordinates    bool
}

// profileQuery builds the profile API query string.
func (s *Service) profileQuery(publisher, listingID, clientIP string) string {
	pairs := []string{
		queryParam(paramAPIKey, s.cfg.APIKey),
		queryParam(paramPublisher, publisher),
		queryParam(paramListingID, listingID),
		queryParam(paramClientIP, clientIP),
	}

	return strings.Join(pairs, "&")
}

// reviewsQuery builds the reviews API query string.
func (s *Service) reviewsQuery(req *reviewQueryInput) string {
	pairs := []string{
		queryParam(paramClientIP, req.ClientIP),
	}

	pairs = appendParam(pairs, paramWhat, req.What)

	if req.hasCoordinates {
		pairs = append(pairs,
			queryParam(paramLatitude, req.Latitude),
			queryParam(paramLongitude, req.Longitude),
		)
		pairs = appendParam(pairs, paramRadius, normalizeRadius(req.Radius))
	} else {
		pairs = append(pairs, queryParam(paramWhere, req.Where))
	}

	pairs = appendParam(pairs, paramPublisher, req.Publisher)

	if req.CustomerOnly {
		pairs = append(pairs, queryParam(paramCustomerOnly, "true"))
	}

	pairs = appendParam(pairs, paramRating, req.Rating)
	pairs = appendParam(pairs, paramDays, req.Days)
	pairs = appendParam(pairs, paramMax, req.Max)
	pairs = appendParam(pairs, paramPlacement, req.Placement)

	return strings.Join(pairs, "&")
}

type reviewQueryInput struct {
	ClientIP       string
	What           string
	Where          string
	Latitude       string
	Longitude      string
	Radius         string
	Publisher      string
	Rating         string
	Days           string
	Max            string
	Placement      string
	CustomerOnly   bool
	hasCoordinates bool
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
