// Package config provides the immutable runtime configuration for the widget
// service. Values come from environment variables with sane defaults and are
// loaded once at startup; the resulting Config is read-only and safe to share
// across concurrent requests.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/lhung/web-widgets/models"
)

// Config holds endpoint, tuning and presentation settings for the widget.
type Config struct {
	ListenAddr string

	OffersAPIURL  string
	ProfileAPIURL string
	ReviewsAPIURL string
	APIKey        string

	// OwnDomain classifies outbound clicks as on-site vs off-site.
	OwnDomain       string
	TrackingBaseURL string
	CouponBaseURL   string

	ResultsPerPage     int
	DefaultDisplaySize int
	EnrichConcurrency  int
	UpstreamTimeout    time.Duration

	ReviewDateLayout string
	MinReviewRating  int

	ImagePool      []string
	CategoryImages map[string][]string
	HouseAds       []models.HouseAd

	limits map[string]int
}

const (
	defaultListenAddr       = ":8080"
	defaultOffersURL        = "http://api.citysearch.com/offers?"
	defaultProfileURL       = "http://api.citysearch.com/profile?"
	defaultReviewsURL       = "http://api.citysearch.com/reviews?"
	defaultOwnDomain        = "citysearch.com"
	defaultTrackingBaseURL  = "http://pfpc.citysearch.com/pfp/ad?"
	defaultCouponBaseURL    = "http://www.citysearch.com/coupon?"
	defaultResultsPerPage   = 2
	defaultDisplaySize      = 2
	defaultConcurrency      = 4
	defaultUpstreamTimeout  = 10 * time.Second
	defaultReviewDateLayout = "2006-01-02"
	defaultMinReviewRating  = 6

	minResultsPerPage = 1
	maxResultsPerPage = 50
	minDisplaySize    = 1
	maxDisplaySize    = 10
	minConcurrency    = 1
	maxConcurrency    = 25
)

// defaultLimits are the truncation limits applied when no ad-unit specific
// override exists. Keys are <adUnitIdentifier>.<field>.
var defaultLimits = map[string]int{
	"default.name":            30,
	"default.title":           40,
	"default.description":     75,
	"default.reviewTitle":     35,
	"default.reviewText":      120,
	"default.reviewTextSmall": 60,
	"default.pros":            30,
	"default.cons":            30,
}

// FromEnv builds a Config from the environment. File-backed settings (limits,
// category images, house ads) are read eagerly so a bad deployment fails at
// startup rather than mid-request.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:         getEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
		OffersAPIURL:       getEnvOrDefault("OFFERS_API_URL", defaultOffersURL),
		ProfileAPIURL:      getEnvOrDefault("PROFILE_API_URL", defaultProfileURL),
		ReviewsAPIURL:      getEnvOrDefault("REVIEWS_API_URL", defaultReviewsURL),
		APIKey:             os.Getenv("API_KEY"),
		OwnDomain:          getEnvOrDefault("WIDGET_OWN_DOMAIN", defaultOwnDomain),
		TrackingBaseURL:    getEnvOrDefault("TRACKING_BASE_URL", defaultTrackingBaseURL),
		CouponBaseURL:      getEnvOrDefault("COUPON_BASE_URL", defaultCouponBaseURL),
		ResultsPerPage:     getEnvInt("RESULTS_PER_PAGE", defaultResultsPerPage, minResultsPerPage, maxResultsPerPage),
		DefaultDisplaySize: getEnvInt("DISPLAY_SIZE", defaultDisplaySize, minDisplaySize, maxDisplaySize),
		EnrichConcurrency:  getEnvInt("ENRICH_CONCURRENCY", defaultConcurrency, minConcurrency, maxConcurrency),
		UpstreamTimeout:    getEnvDuration("UPSTREAM_TIMEOUT", defaultUpstreamTimeout),
		ReviewDateLayout:   getEnvOrDefault("REVIEW_DATE_LAYOUT", defaultReviewDateLayout),
		MinReviewRating:    getEnvInt("MIN_REVIEW_RATING", defaultMinReviewRating, 0, 10),
		CategoryImages:     map[string][]string{},
		limits:             map[string]int{},
	}

	for k, v := range defaultLimits {
		cfg.limits[k] = v
	}

	if pool := os.Getenv("WIDGET_IMAGE_POOL"); pool != "" {
		for _, entry := range strings.Split(pool, ",") {
			if entry = strings.TrimSpace(entry); entry != "" {
				cfg.ImagePool = append(cfg.ImagePool, entry)
			}
		}
	}

	var err error

	if path := os.Getenv("WIDGET_LIMITS_FILE"); path != "" {
		overrides := map[string]int{}
		if loadErr := loadJSONFile(path, &overrides); loadErr != nil {
			err = multierr.Append(err, loadErr)
		}

		for k, v := range overrides {
			cfg.limits[k] = v
		}
	}

	if path := os.Getenv("WIDGET_CATEGORY_IMAGES_FILE"); path != "" {
		if loadErr := loadJSONFile(path, &cfg.CategoryImages); loadErr != nil {
			err = multierr.Append(err, loadErr)
		}
	}

	if path := os.Getenv("WIDGET_HOUSE_ADS_FILE"); path != "" {
		if loadErr := loadJSONFile(path, &cfg.HouseAds); loadErr != nil {
			err = multierr.Append(err, loadErr)
		}
	}

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Limit returns the truncation limit for an ad unit and field, falling back
// to the defaults. Zero means the field is not truncated.
func (c *Config) Limit(adUnitIdentifier, field string) int {
	if v, ok := c.limits[adUnitIdentifier+"."+field]; ok {
		return v
	}

	return c.limits["default."+field]
}

// SetLimit overrides a truncation limit. It exists for wiring tests and must
// not be called after startup.
func (c *Config) SetLimit(key string, value int) {
	if c.limits == nil {
		c.limits = map[string]int{}
	}

	c.limits[key] = value
}

func loadJSONFile(path string, target any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue, minValue, maxValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return defaultValue
	}

	if parsed < minValue {
		return minValue
	}

	if parsed > maxValue {
		return maxValue
	}

	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || parsed <= 0 {
		return defaultValue
	}

	return parsed
}
