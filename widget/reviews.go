package widget

import (
	"context"
	"errors"
	"time"

	"github.com/beevik/etree"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/lhung/web-widgets/models"
	"github.com/lhung/web-widgets/tracking"
	"github.com/lhung/web-widgets/utils"
)

// Review XML element and field names.
const (
	elemReview = "review"

	fieldBusinessName = "business_name"
	fieldReviewID     = "review_id"
	fieldReviewTitle  = "review_title"
	fieldReviewText   = "review_text"
	fieldReviewRating = "review_rating"
	fieldReviewDate   = "review_date"
	fieldReviewAuthor = "review_author"
	fieldReviewURL    = "review_url"
	fieldPros         = "pros"
	fieldCons         = "cons"
)

// reviewDisplayDate is the layout review dates are rendered in.
const reviewDisplayDate = "01/02/2006"

// ErrNoReview is returned when no review qualifies (none present, none at or
// above the rating floor, or none with a parseable date).
var ErrNoReview = errors.New("widget: no qualifying review")

// LatestReview returns the most recently dated review at or above the
// configured minimum rating, backfilled with the listing's profile data and
// tracking URLs.
func (s *Service) LatestReview(ctx context.Context, req *models.ReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rawURL := s.cfg.ReviewsAPIURL + s.reviewsQuery(&reviewQueryInput{
		ClientIP:       req.ClientIP,
		What:           req.What,
		Where:          req.Where,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Radius:         req.Radius,
		Publisher:      req.Publisher,
		Rating:         req.Rating,
		Days:           req.Days,
		Max:            req.Max,
		Placement:      req.Placement,
		CustomerOnly:   req.CustomerOnly,
		hasCoordinates: req.HasCoordinates(),
	})

	doc, err := s.client.Fetch(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		return nil, ErrNoReview
	}

	latest := latestReviewElement(root.SelectElements(elemReview), s.cfg.ReviewDateLayout, s.cfg.MinReviewRating)
	if latest == nil {
		return nil, ErrNoReview
	}

	review := s.parseReviewElement(latest, req.AdUnitIdentifier())
	review.CallBackURL = req.CallBackURL

	if err := s.backfillReview(ctx, review, req); err != nil {
		return nil, err
	}

	return review, nil
}

// latestReviewElement selects the review with the most recent parseable date
// among those rated at or above minRating (0 disables the floor). Reviews
// with unparseable dates are excluded. Ties on date resolve to the later
// document position.
func latestReviewElement(elems []*etree.Element, dateLayout string, minRating int) *etree.Element {
	var (
		best     *etree.Element
		bestDate time.Time
	)

	for _, elm := range elems {
		if minRating > 0 && utils.ToInt(childText(elm, fieldReviewRating)) < minRating {
			continue
		}

		date, err := time.Parse(dateLayout, childText(elm, fieldReviewDate))
		if err != nil {
			continue
		}

		if best == nil || !date.Before(bestDate) {
			best = elm
			bestDate = date
		}
	}

	return best
}

// parseReviewElement maps one review element onto a Review, truncating the
// display fields per ad unit.
func (s *Service) parseReviewElement(elm *etree.Element, adUnitIdentifier string) *models.Review {
	review := &models.Review{
		ListingID:   childText(elm, fieldListingID),
		ReviewID:    childText(elm, fieldReviewID),
		Author:      childText(elm, fieldReviewAuthor),
		RatingValue: childText(elm, fieldReviewRating),
		ReviewURL:   childText(elm, fieldReviewURL),
	}

	review.Stars = utils.StarList(review.RatingValue)

	review.BusinessName = childText(elm, fieldBusinessName)
	review.ShortBusinessName = utils.Abbreviate(review.BusinessName, s.cfg.Limit(adUnitIdentifier, limitName))

	review.Title = childText(elm, fieldReviewTitle)
	review.ShortTitle = utils.Abbreviate(review.Title, s.cfg.Limit(adUnitIdentifier, limitReviewTitle))

	review.Text = childText(elm, fieldReviewText)
	review.ShortText = utils.Abbreviate(review.Text, s.cfg.Limit(adUnitIdentifier, limitReviewText))
	review.SmallText = utils.Abbreviate(review.Text, s.cfg.Limit(adUnitIdentifier, limitReviewTextSmall))

	review.Pros = childText(elm, fieldPros)
	review.ShortPros = utils.Abbreviate(review.Pros, s.cfg.Limit(adUnitIdentifier, limitPros))

	review.Cons = childText(elm, fieldCons)
	review.ShortCons = utils.Abbreviate(review.Cons, s.cfg.Limit(adUnitIdentifier, limitCons))

	if date, err := time.Parse(s.cfg.ReviewDateLayout, childText(elm, fieldReviewDate)); err == nil {
		review.Date = date.Format(reviewDisplayDate)
		review.TimeSince = humanize.Time(date)
	}

	return review
}

// backfillReview copies profile data onto the review and builds its tracking
// URLs. A profile fetch failure leaves the review usable with its own fields;
// a tracking URL failure is fatal for the request.
func (s *Service) backfillReview(ctx context.Context, review *models.Review, req *models.ReviewRequest) error {
	profileReq := &models.ProfileRequest{
		Publisher:         req.Publisher,
		ListingID:         review.ListingID,
		ClientIP:          req.ClientIP,
		AdUnitName:        req.AdUnitName,
		AdUnitSize:        req.AdUnitSize,
		DartClickTrackURL: req.DartClickTrackURL,
	}

	profile, err := s.Profile(ctx, profileReq)
	if err != nil {
		s.logger.Warn("review profile backfill failed",
			zap.String("listing_id", review.ListingID),
			zap.Error(err),
		)

		return nil
	}

	review.Address = profile.Address
	review.Phone = utils.FormatPhone(profile.Phone)
	review.ProfileURL = profile.ProfileURL
	review.SendToFriendURL = profile.SendToFriendURL
	review.ImageURL = profile.ImageURL

	trackInput := trackInput{
		listingID:  review.ListingID,
		publisher:  req.Publisher,
		adUnitName: req.AdUnitName,
		adUnitSize: req.AdUnitSize,
		dart:       req.DartClickTrackURL,
	}

	if review.ProfileTrackingURL, err = s.trackedURL(profile.ProfileURL, trackInput); err != nil {
		return err
	}

	if review.SendToFriendTrackingURL, err = s.trackedURL(profile.SendToFriendURL, trackInput); err != nil {
		return err
	}

	if review.ReviewTrackingURL, err = s.trackedURL(review.ReviewURL, trackInput); err != nil {
		return err
	}

	review.CallBackFunction = tracking.CallbackFunction(req.CallBackFunction, review.ListingID, review.Phone)

	return nil
}

type trackInput struct {
	listingID  string
	publisher  string
	adUnitName string
	adUnitSize string
	dart       string
}

// trackedURL builds a tracking URL. A blank destination yields "" without
// error; a malformed one is fatal for the request since destinations are
// internally constructed.
func (s *Service) trackedURL(destination string, in trackInput) (string, error) {
	if trimmed(destination) == "" {
		return "", nil
	}

	return s.tracker.URL(tracking.URLParams{
		DestinationURL:  destination,
		DartTrackingURL: in.dart,
		ListingID:       in.listingID,
		Publisher:       in.publisher,
		AdUnitName:      in.adUnitName,
		AdUnitSize:      in.adUnitSize,
	})
}
