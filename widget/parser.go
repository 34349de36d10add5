package widget

import (
	"github.com/beevik/etree"

	"github.com/lhung/web-widgets/models"
	"github.com/lhung/web-widgets/utils"
)

// Offer XML element and field names.
const (
	elemOffer = "offer"

	fieldCity           = "city"
	fieldState          = "state"
	fieldStreet         = "street"
	fieldZip            = "zip"
	fieldAttribution    = "attribution_source"
	fieldRating         = "cs_rating"
	fieldReviewCount    = "review_count"
	fieldImageURL       = "image_url"
	fieldLatitude       = "latitude"
	fieldLongitude      = "longitude"
	fieldListingID      = "listing_id"
	fieldListingName    = "listing_name"
	fieldOfferID        = "offer_id"
	fieldOfferTitle     = "offer_title"
	fieldOfferDesc      = "offer_description"
	fieldReferenceID    = "reference_id"
)

// Truncation limit field keys.
const (
	limitName            = "name"
	limitTitle           = "title"
	limitDescription     = "description"
	limitReviewTitle     = "reviewTitle"
	limitReviewText      = "reviewText"
	limitReviewTextSmall = "reviewTextSmall"
	limitPros            = "pros"
	limitCons            = "cons"
)

// parseOffers converts the offers API document into Offer entities in
// document order. A document without a root element or without offer
// children yields an empty list.
func (s *Service) parseOffers(doc *etree.Document, adUnitIdentifier string) []models.Offer {
	if doc == nil {
		return nil
	}

	root := doc.Root()
	if root == nil {
		return nil
	}

	elems := root.SelectElements(elemOffer)
	offers := make([]models.Offer, 0, len(elems))

	for _, elm := range elems {
		offers = append(offers, s.toOffer(elm, adUnitIdentifier))
	}

	return offers
}

func (s *Service) toOffer(elm *etree.Element, adUnitIdentifier string) models.Offer {
	offer := models.Offer{
		ListingID:      childText(elm, fieldListingID),
		OfferID:        childText(elm, fieldOfferID),
		ReferenceID:    childText(elm, fieldReferenceID),
		City:           childText(elm, fieldCity),
		State:          childText(elm, fieldState),
		Street:         childText(elm, fieldStreet),
		Zip:            childText(elm, fieldZip),
		AttributionSrc: childText(elm, fieldAttribution),
		Latitude:       childText(elm, fieldLatitude),
		Longitude:      childText(elm, fieldLongitude),
		RatingValue:    childText(elm, fieldRating),
		ImageURL:       childText(elm, fieldImageURL),
		ReviewCount:    utils.ToInt(childText(elm, fieldReviewCount)),
	}

	offer.Location = utils.LocationString(offer.City, offer.State)
	offer.Stars = utils.StarList(offer.RatingValue)

	offer.ListingName = childText(elm, fieldListingName)
	offer.ShortListingName = utils.Abbreviate(offer.ListingName, s.cfg.Limit(adUnitIdentifier, limitName))

	offer.Title = childText(elm, fieldOfferTitle)
	offer.ShortTitle = utils.Abbreviate(offer.Title, s.cfg.Limit(adUnitIdentifier, limitTitle))

	offer.Description = childText(elm, fieldOfferDesc)
	offer.ShortDescription = utils.Abbreviate(offer.Description, s.cfg.Limit(adUnitIdentifier, limitDescription))

	return offer
}
