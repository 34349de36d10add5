package widget

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lhung/web-widgets/models"
	"github.com/lhung/web-widgets/tracking"
	"github.com/lhung/web-widgets/utils"
)

// enrich decorates every offer with profile data, tracking URLs and the
// callback function, fanning out one profile lookup per offer. A failed
// profile lookup leaves that offer with its own fields; a tracking URL
// failure aborts the whole request. Each goroutine writes only to its own
// offer so no locking is needed on the slice.
func (s *Service) enrich(ctx context.Context, offers []models.Offer, req *models.OfferRequest) error {
	if len(offers) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency(len(offers)))

	var (
		mu       sync.Mutex
		profErrs error
	)

	for i := range offers {
		offer := &offers[i]

		g.Go(func() error {
			profile, err := s.Profile(gctx, &models.ProfileRequest{
				Publisher:  req.Publisher,
				ListingID:  offer.ListingID,
				ClientIP:   req.ClientIP,
				AdUnitName: req.AdUnitName,
				AdUnitSize: req.AdUnitSize,
			})
			if err != nil {
				mu.Lock()
				profErrs = multierr.Append(profErrs, err)
				mu.Unlock()
			} else {
				s.applyProfile(offer, profile)
			}

			return s.decorateOffer(offer, req)
		})
	}

	err := g.Wait()

	if profErrs != nil {
		s.logger.Warn("offer enrichment partially failed",
			zap.Int("offers", len(offers)),
			zap.Error(profErrs),
		)
	}

	return err
}

// applyProfile copies the profile fields an offer renders.
func (s *Service) applyProfile(offer *models.Offer, profile *models.Profile) {
	offer.ReviewCount = profile.ReviewCount
	offer.ProfileURL = profile.ProfileURL
	offer.Phone = utils.FormatPhone(profile.Phone)

	if offer.ImageURL == "" {
		offer.ImageURL = profile.ImageURL
	}
}

// decorateOffer builds the offer's tracking URLs and callback snippet.
func (s *Service) decorateOffer(offer *models.Offer, req *models.OfferRequest) error {
	in := trackInput{
		listingID:  offer.ListingID,
		publisher:  req.Publisher,
		adUnitName: req.AdUnitName,
		adUnitSize: req.AdUnitSize,
		dart:       req.DartClickTrackURL,
	}

	var err error

	if offer.ProfileTrackingURL, err = s.trackedURL(offer.ProfileURL, in); err != nil {
		return err
	}

	if offer.CouponTrackingURL, err = s.trackedURL(s.couponURL(offer), in); err != nil {
		return err
	}

	offer.CallBackFunction = tracking.CallbackFunction(req.CallBackFunction, offer.ListingID, offer.Phone)
	offer.CallBackURL = req.CallBackURL

	return nil
}

// couponURL is the print-coupon destination the coupon tracking URL wraps.
func (s *Service) couponURL(offer *models.Offer) string {
	if offer.OfferID == "" {
		return ""
	}

	return s.cfg.CouponBaseURL +
		queryParam(paramListingID, offer.ListingID) + "&" +
		queryParam("offerId", offer.OfferID)
}

// backfill attaches a profile-and-latest-review to each offer when the
// upstream returned fewer offers than the widget displays, giving the
// renderer secondary content to fill the remaining slots. Failures here are
// logged and swallowed; the primary offers stand on their own.
func (s *Service) backfill(ctx context.Context, offers []models.Offer, req *models.OfferRequest) {
	if len(offers) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency(len(offers)))

	for i := range offers {
		offer := &offers[i]

		g.Go(func() error {
			profile, err := s.ProfileWithLatestReview(gctx, &models.ProfileRequest{
				Publisher:  req.Publisher,
				ListingID:  offer.ListingID,
				ClientIP:   req.ClientIP,
				AdUnitName: req.AdUnitName,
				AdUnitSize: req.AdUnitSize,
			})
			if err != nil {
				s.logger.Warn("offer backfill failed",
					zap.String("listing_id", offer.ListingID),
					zap.Error(err),
				)

				return nil
			}

			offer.Backfill = profile

			return nil
		})
	}

	_ = g.Wait()
}

func (s *Service) concurrency(n int) int {
	if n < s.cfg.EnrichConcurrency {
		return n
	}

	return s.cfg.EnrichConcurrency
}
