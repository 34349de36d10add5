package widget

import (
	"context"

	"go.uber.org/zap"

	"github.com/lhung/web-widgets/models"
)

// Get runs the full offers pipeline: validate, fetch, parse, rank, enrich,
// backfill and assign fallback images. The returned slice holds at most the
// requested display size in final render order.
func (s *Service) Get(ctx context.Context, req *models.OfferRequest) ([]models.Offer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	displaySize := req.DisplaySize
	if displaySize <= 0 {
		displaySize = s.cfg.DefaultDisplaySize
	}

	rawURL := s.cfg.OffersAPIURL + s.offersQuery(&offerQueryInput{
		ClientIP:          req.ClientIP,
		What:              req.What,
		Where:             req.Where,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Radius:            req.Radius,
		Tag:               req.Tag,
		ExpiresBefore:     req.ExpiresBefore,
		CustomerHasBudget: "true",
		CallBackFunction:  req.CallBackFunction,
		hasCoordinates:    req.HasCoordinates(),
	})

	doc, err := s.client.Fetch(ctx, rawURL, map[string]string{
		publisherHeader: req.Publisher,
	})
	if err != nil {
		return nil, err
	}

	offers := s.parseOffers(doc, req.AdUnitIdentifier())

	s.logger.Debug("offers fetched",
		zap.String("publisher", req.Publisher),
		zap.Int("parsed", len(offers)),
		zap.Int("display_size", displaySize),
	)

	offers = selectOffers(offers, req, displaySize)

	if err := s.enrich(ctx, offers, req); err != nil {
		return nil, err
	}

	if len(offers) < displaySize {
		s.backfill(ctx, offers, req)
	}

	s.assigner.Assign(offers)

	return offers, nil
}
