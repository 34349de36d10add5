package widget

import (
	"context"
	"errors"
	"math/rand"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/lhung/web-widgets/models"
	"github.com/lhung/web-widgets/utils"
)

// Profile XML element names.
const (
	elemLocation    = "location"
	elemAddress     = "address"
	elemContactInfo = "contact_info"
	elemURLs        = "urls"
	elemImages      = "images"
	elemImage       = "image"
	elemCategories  = "categories"
	elemCategory    = "category"
	elemReviews     = "reviews"

	fieldID              = "id"
	fieldPostalCode      = "postal_code"
	fieldDisplayPhone    = "display_phone"
	fieldProfileURL      = "profile_url"
	fieldSendToFriendURL = "send_to_friend_url"
	fieldReviewsURL      = "reviews_url"
	fieldWebsiteURL      = "website_url"
	fieldMenuURL         = "menu_url"
	fieldReservationURL  = "reservation_url"
	fieldMapURL          = "map_url"
	fieldTotalReviews    = "total_user_reviews"
	attrCategoryName     = "name"
)

// ErrProfileNotFound is returned when the profile response has no location
// element for the listing.
var ErrProfileNotFound = errors.New("widget: profile not found")

// Profile fetches and parses a single listing's profile.
func (s *Service) Profile(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error) {
	doc, err := s.fetchProfileDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	profile := s.parseProfile(doc)
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	return profile, nil
}

// ProfileWithLatestReview fetches a profile together with its most recently
// dated review. Unlike the dedicated review flow there is no rating floor.
func (s *Service) ProfileWithLatestReview(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error) {
	doc, err := s.fetchProfileDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	profile := s.parseProfile(doc)
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	location := doc.Root().SelectElement(elemLocation)
	profile.ListingID = childText(location, fieldID)

	if reviewsElm := location.SelectElement(elemReviews); reviewsElm != nil {
		elems := reviewsElm.SelectElements(elemReview)
		if latest := latestReviewElement(elems, s.cfg.ReviewDateLayout, 0); latest != nil {
			profile.Review = s.parseReviewElement(latest, req.AdUnitIdentifier())
		}
	}

	return profile, nil
}

func (s *Service) fetchProfileDocument(ctx context.Context, req *models.ProfileRequest) (*etree.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rawURL := s.cfg.ProfileAPIURL + s.profileQuery(req.Publisher, req.ListingID, req.ClientIP)

	s.logger.Debug("fetching profile",
		zap.String("listing_id", req.ListingID),
		zap.String("publisher", req.Publisher),
	)

	return s.client.Fetch(ctx, rawURL, nil)
}

// parseProfile maps the location element of a profile document onto a
// Profile. Returns nil when the document has no location.
func (s *Service) parseProfile(doc *etree.Document) *models.Profile {
	if doc == nil || doc.Root() == nil {
		return nil
	}

	location := doc.Root().SelectElement(elemLocation)
	if location == nil {
		return nil
	}

	profile := &models.Profile{}

	if addr := location.SelectElement(elemAddress); addr != nil {
		profile.Address = models.Address{
			Street:     childText(addr, fieldStreet),
			City:       childText(addr, fieldCity),
			State:      childText(addr, fieldState),
			PostalCode: childText(addr, fieldPostalCode),
		}
	}

	if contact := location.SelectElement(elemContactInfo); contact != nil {
		profile.Phone = childText(contact, fieldDisplayPhone)
	}

	if urls := location.SelectElement(elemURLs); urls != nil {
		profile.ProfileURL = childText(urls, fieldProfileURL)
		profile.SendToFriendURL = childText(urls, fieldSendToFriendURL)
		profile.ReviewsURL = childText(urls, fieldReviewsURL)
		profile.WebsiteURL = childText(urls, fieldWebsiteURL)
		profile.MenuURL = childText(urls, fieldMenuURL)
		profile.ReservationURL = childText(urls, fieldReservationURL)
		profile.MapURL = childText(urls, fieldMapURL)
	}

	if reviews := location.SelectElement(elemReviews); reviews != nil {
		profile.ReviewCount = utils.ToInt(childText(reviews, fieldTotalReviews))
	}

	profile.ImageURL = s.profileImage(
		location.SelectElement(elemImages),
		location.SelectElement(elemCategories),
	)

	return profile
}

// profileImage returns the first non-blank image URL from the response, or a
// stock image matching one of the listing's categories.
func (s *Service) profileImage(imagesElm, categoriesElm *etree.Element) string {
	if imagesElm != nil {
		for _, img := range imagesElm.SelectElements(elemImage) {
			if u := childText(img, fieldImageURL); u != "" {
				return u
			}
		}
	}

	return s.stockImage(categoriesElm)
}

// stockImage picks a random image for the first listing category that has a
// configured image list.
func (s *Service) stockImage(categoriesElm *etree.Element) string {
	if categoriesElm == nil || len(s.cfg.CategoryImages) == 0 {
		return ""
	}

	for _, cat := range categoriesElm.SelectElements(elemCategory) {
		name := trimmed(cat.SelectAttrValue(attrCategoryName, ""))
		if name == "" {
			continue
		}

		pool, ok := s.cfg.CategoryImages[name]
		if !ok || len(pool) == 0 {
			continue
		}

		return pool[rand.Intn(len(pool))]
	}

	return ""
}
