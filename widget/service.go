// Package widget implements the ad-widget aggregation pipeline: it queries
// the upstream offers, profile and reviews APIs, merges and ranks the
// results, enriches them with profile data and produces view-ready entities
// with outbound tracking URLs.
package widget

import (
	"context"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/lhung/web-widgets/config"
	"github.com/lhung/web-widgets/images"
	"github.com/lhung/web-widgets/tracking"
)

// Fetcher retrieves an upstream URL and returns the parsed XML document.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, headers map[string]string) (*etree.Document, error)
}

// Service runs the aggregation pipeline. It is stateless apart from its
// read-only configuration and safe for concurrent use.
type Service struct {
	cfg      *config.Config
	client   Fetcher
	tracker  *tracking.Builder
	assigner *images.Assigner
	logger   *zap.Logger
}

// New wires a Service from its collaborators.
func New(cfg *config.Config, client Fetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		cfg:      cfg,
		client:   client,
		tracker:  tracking.NewBuilder(cfg.TrackingBaseURL, cfg.OwnDomain),
		assigner: images.NewAssigner(cfg.ImagePool),
		logger:   logger,
	}
}

// childText returns the trimmed text of the named child element, or "".
func childText(e *etree.Element, name string) string {
	if e == nil {
		return ""
	}

	child := e.SelectElement(name)
	if child == nil {
		return ""
	}

	return trimmed(child.Text())
}
