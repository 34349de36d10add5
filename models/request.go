package models

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation messages. Validation collects every applicable violation before
// failing, so callers see the complete rule set they broke.
const (
	RulePublisherRequired = "publisher is required"
	RuleClientIPRequired  = "client ip is required"
	RuleListingIDRequired = "listing id is required"
	RuleLatLonTogether    = "latitude and longitude must be supplied together"
	RuleWhereRequired     = "where is required when latitude and longitude are not supplied"
	RuleLocationExclusive = "where and latitude/longitude are mutually exclusive"
	RuleRadiusRequired    = "radius is required when latitude and longitude are supplied"
	RuleRadiusBounds      = "radius must be a number between 1 and 25"
)

// InvalidParametersError reports every validation rule a request violated.
type InvalidParametersError struct {
	Violations []string
}

func (e *InvalidParametersError) Error() string {
	return "invalid parameters: " + strings.Join(e.Violations, "; ")
}

// IsInvalidParameters reports whether err is (or wraps) a validation failure.
func IsInvalidParameters(err error) bool {
	var target *InvalidParametersError
	return errors.As(err, &target)
}

const (
	radiusMin = 1
	radiusMax = 25
)

// OfferRequest describes a single widget request for sponsored offers.
type OfferRequest struct {
	Publisher         string
	ClientIP          string
	What              string
	Tag               string
	Where             string
	Latitude          string
	Longitude         string
	Radius            string
	ExpiresBefore     string
	CustomerHasBudget string
	DisplaySize       int
	AdUnitName        string
	AdUnitSize        string
	CallBackFunction  string
	CallBackURL       string
	DartClickTrackURL string
}

// AdUnitIdentifier is the name_size pair keying the truncation limits.
func (r *OfferRequest) AdUnitIdentifier() string {
	return r.AdUnitName + "_" + r.AdUnitSize
}

// HasCoordinates reports whether both latitude and longitude are populated.
func (r *OfferRequest) HasCoordinates() bool {
	return !isBlank(r.Latitude) && !isBlank(r.Longitude)
}

// Validate checks required fields and forbidden field combinations,
// returning an InvalidParametersError carrying every violated rule.
func (r *OfferRequest) Validate() error {
	violations := requiredIdentity(r.Publisher, r.ClientIP)
	violations = append(violations, locationViolations(r.Where, r.Latitude, r.Longitude, r.Radius)...)

	if len(violations) > 0 {
		return &InvalidParametersError{Violations: violations}
	}

	return nil
}

// ReviewRequest describes a request for the latest qualifying review.
type ReviewRequest struct {
	Publisher         string
	ClientIP          string
	What              string
	Where             string
	Latitude          string
	Longitude         string
	Radius            string
	Rating            string
	Days              string
	Max               string
	Placement         string
	CustomerOnly      bool
	DisplaySize       int
	AdUnitName        string
	AdUnitSize        string
	CallBackFunction  string
	CallBackURL       string
	DartClickTrackURL string
}

func (r *ReviewRequest) AdUnitIdentifier() string {
	return r.AdUnitName + "_" + r.AdUnitSize
}

func (r *ReviewRequest) HasCoordinates() bool {
	return !isBlank(r.Latitude) && !isBlank(r.Longitude)
}

// Validate applies the same identity and location rules as OfferRequest.
func (r *ReviewRequest) Validate() error {
	violations := requiredIdentity(r.Publisher, r.ClientIP)
	violations = append(violations, locationViolations(r.Where, r.Latitude, r.Longitude, r.Radius)...)

	if len(violations) > 0 {
		return &InvalidParametersError{Violations: violations}
	}

	return nil
}

// ProfileRequest describes a lookup of a single listing's profile.
type ProfileRequest struct {
	Publisher         string `validate:"required"`
	ListingID         string `validate:"required"`
	ClientIP          string `validate:"required"`
	AdUnitName        string
	AdUnitSize        string
	CallBackFunction  string
	CallBackURL       string
	DartClickTrackURL string
}

func (r *ProfileRequest) AdUnitIdentifier() string {
	return r.AdUnitName + "_" + r.AdUnitSize
}

var profileValidator = validator.New(validator.WithRequiredStructEnabled())

var profileRuleByField = map[string]string{
	"Publisher": RulePublisherRequired,
	"ListingID": RuleListingIDRequired,
	"ClientIP":  RuleClientIPRequired,
}

// Validate checks the required profile lookup fields, reporting every
// missing one.
func (r *ProfileRequest) Validate() error {
	trimmed := *r
	trimmed.Publisher = strings.TrimSpace(trimmed.Publisher)
	trimmed.ListingID = strings.TrimSpace(trimmed.ListingID)
	trimmed.ClientIP = strings.TrimSpace(trimmed.ClientIP)

	err := profileValidator.Struct(&trimmed)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make([]string, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		if rule, ok := profileRuleByField[fe.Field()]; ok {
			violations = append(violations, rule)
		}
	}

	return &InvalidParametersError{Violations: violations}
}

func requiredIdentity(publisher, clientIP string) []string {
	var violations []string

	if isBlank(publisher) {
		violations = append(violations, RulePublisherRequired)
	}

	if isBlank(clientIP) {
		violations = append(violations, RuleClientIPRequired)
	}

	return violations
}

// locationViolations enforces the canonical location rule set: exactly one of
// {lat/lon, where}, lat and lon always together, radius present and within
// bounds whenever coordinates are used.
func locationViolations(where, lat, lon, radius string) []string {
	var violations []string

	hasLat := !isBlank(lat)
	hasLon := !isBlank(lon)
	hasWhere := !isBlank(where)
	hasCoords := hasLat && hasLon

	if hasLat != hasLon {
		violations = append(violations, RuleLatLonTogether)
	}

	switch {
	case hasCoords && hasWhere:
		violations = append(violations, RuleLocationExclusive)
	case !hasCoords && !hasWhere:
		violations = append(violations, RuleWhereRequired)
	}

	if hasCoords {
		switch {
		case isBlank(radius):
			violations = append(violations, RuleRadiusRequired)
		default:
			val, err := strconv.ParseFloat(strings.TrimSpace(radius), 64)
			if err != nil || val < radiusMin || val > radiusMax {
				violations = append(violations, RuleRadiusBounds)
			}
		}
	}

	return violations
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
