package widget

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lhung/web-widgets/models"
	"github.com/lhung/web-widgets/utils"
)

// selectOffers orders offers by ascending distance from the request's
// coordinates when both are supplied, otherwise by descending rating, and
// truncates the result to displaySize. Ties keep upstream document order.
// Offers that cannot be ranked (missing coordinates, blank or non-numeric
// rating) sort after every ranked offer, in original order.
func selectOffers(offers []models.Offer, req *models.OfferRequest, displaySize int) []models.Offer {
	if len(offers) == 0 {
		return offers
	}

	var ranked []models.Offer

	if req.HasCoordinates() {
		srcLat, srcLon, err := utils.ParseCoordinates(req.Latitude, req.Longitude)
		if err != nil {
			// Validation guarantees numeric coordinates; fall back to
			// rating order if something slipped through.
			ranked = rankByRating(offers)
		} else {
			ranked = rankByDistance(offers, srcLat, srcLon)
		}
	} else {
		ranked = rankByRating(offers)
	}

	if len(ranked) > displaySize {
		ranked = ranked[:displaySize]
	}

	return ranked
}

// rankByDistance computes each offer's distance from the source point and
// stable-sorts ranked offers ascending. The sort key is (distance, original
// index), sidestepping float equality grouping.
func rankByDistance(offers []models.Offer, srcLat, srcLon float64) []models.Offer {
	ranked := make([]int, 0, len(offers))
	unranked := make([]int, 0)

	for i := range offers {
		lat, lon, err := utils.ParseCoordinates(offers[i].Latitude, offers[i].Longitude)
		if err != nil {
			unranked = append(unranked, i)
			continue
		}

		d := utils.Distance(srcLat, srcLon, lat, lon)
		offers[i].Distance = &d
		ranked = append(ranked, i)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return *offers[ranked[a]].Distance < *offers[ranked[b]].Distance
	})

	return collect(offers, ranked, unranked)
}

// rankByRating stable-sorts offers with a parseable rating descending;
// unrated offers follow in original order.
func rankByRating(offers []models.Offer) []models.Offer {
	ranked := make([]int, 0, len(offers))
	unranked := make([]int, 0)
	ratings := make(map[int]float64, len(offers))

	for i := range offers {
		raw := strings.TrimSpace(offers[i].RatingValue)

		val, err := strconv.ParseFloat(raw, 64)
		if raw == "" || err != nil {
			unranked = append(unranked, i)
			continue
		}

		ratings[i] = val
		ranked = append(ranked, i)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ratings[ranked[a]] > ratings[ranked[b]]
	})

	return collect(offers, ranked, unranked)
}

func collect(offers []models.Offer, ranked, unranked []int) []models.Offer {
	out := make([]models.Offer, 0, len(offers))

	for _, i := range ranked {
		out = append(out, offers[i])
	}

	for _, i := range unranked {
		out = append(out, offers[i])
	}

	return out
}
