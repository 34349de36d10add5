package handlers

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lhung/web-widgets/models"
	"github.com/lhung/web-widgets/widget"
)

// Offers serves the ranked, enriched offer list. Validation failures return
// 400 with the full violation list; a pipeline failure degrades to the
// configured house ads so the widget always has something to render.
func (h *APIHandlers) Offers(w http.ResponseWriter, r *http.Request) {
	req := offerRequestFromQuery(r)

	offers, err := h.Deps.Widget.Get(r.Context(), req)
	if err != nil {
		var invalid *models.InvalidParametersError
		if errors.As(err, &invalid) {
			renderJSON(w, http.StatusBadRequest, apiError{
				Code:       http.StatusBadRequest,
				Message:    "invalid parameters",
				Violations: invalid.Violations,
			})

			return
		}

		h.Deps.Logger.Warn("offers pipeline failed, serving house ads",
			zap.String("publisher", req.Publisher),
			zap.Error(err),
		)

		renderJSON(w, http.StatusOK, map[string]any{
			"offers":    []models.Offer{},
			"house_ads": h.Deps.HouseAds,
		})

		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"offers": offers})
}

// Profile serves a single listing's profile.
func (h *APIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	req := profileRequestFromQuery(r)

	profile, err := h.Deps.Widget.Profile(r.Context(), req)
	if err != nil {
		h.renderServiceError(w, err, "profile lookup failed")
		return
	}

	renderJSON(w, http.StatusOK, profile)
}

// LatestReview serves the most recent qualifying review for a search.
func (h *APIHandlers) LatestReview(w http.ResponseWriter, r *http.Request) {
	req := reviewRequestFromQuery(r)

	review, err := h.Deps.Widget.LatestReview(r.Context(), req)
	if err != nil {
		h.renderServiceError(w, err, "review lookup failed")
		return
	}

	renderJSON(w, http.StatusOK, review)
}

// Health reports liveness.
func (h *APIHandlers) Health(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) renderServiceError(w http.ResponseWriter, err error, logMsg string) {
	var invalid *models.InvalidParametersError

	switch {
	case errors.As(err, &invalid):
		renderJSON(w, http.StatusBadRequest, apiError{
			Code:       http.StatusBadRequest,
			Message:    "invalid parameters",
			Violations: invalid.Violations,
		})
	case errors.Is(err, widget.ErrProfileNotFound), errors.Is(err, widget.ErrNoReview):
		renderJSON(w, http.StatusNotFound, apiError{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	default:
		h.Deps.Logger.Warn(logMsg, zap.Error(err))
		renderJSON(w, http.StatusBadGateway, apiError{
			Code:    http.StatusBadGateway,
			Message: "upstream unavailable",
		})
	}
}

func offerRequestFromQuery(r *http.Request) *models.OfferRequest {
	q := r.URL.Query()

	return &models.OfferRequest{
		Publisher:         q.Get("publisher"),
		ClientIP:          clientIP(r, q),
		What:              q.Get("what"),
		Tag:               q.Get("tag"),
		Where:             q.Get("where"),
		Latitude:          q.Get("latitude"),
		Longitude:         q.Get("longitude"),
		Radius:            q.Get("radius"),
		ExpiresBefore:     q.Get("expires_before"),
		DisplaySize:       intParam(q, "display_size"),
		AdUnitName:        q.Get("ad_unit_name"),
		AdUnitSize:        q.Get("ad_unit_size"),
		CallBackFunction:  q.Get("callback_function"),
		CallBackURL:       q.Get("callback_url"),
		DartClickTrackURL: q.Get("dart_click_track_url"),
	}
}

func profileRequestFromQuery(r *http.Request) *models.ProfileRequest {
	q := r.URL.Query()

	return &models.ProfileRequest{
		Publisher:         q.Get("publisher"),
		ListingID:         q.Get("listing_id"),
		ClientIP:          clientIP(r, q),
		AdUnitName:        q.Get("ad_unit_name"),
		AdUnitSize:        q.Get("ad_unit_size"),
		CallBackFunction:  q.Get("callback_function"),
		CallBackURL:       q.Get("callback_url"),
		DartClickTrackURL: q.Get("dart_click_track_url"),
	}
}

func reviewRequestFromQuery(r *http.Request) *models.ReviewRequest {
	q := r.URL.Query()

	return &models.ReviewRequest{
		Publisher:         q.Get("publisher"),
		ClientIP:          clientIP(r, q),
		What:              q.Get("what"),
		Where:             q.Get("where"),
		Latitude:          q.Get("latitude"),
		Longitude:         q.Get("longitude"),
		Radius:            q.Get("radius"),
		Rating:            q.Get("rating"),
		Days:              q.Get("days"),
		Max:               q.Get("max"),
		Placement:         q.Get("placement"),
		CustomerOnly:      q.Get("customer_only") == "true",
		DisplaySize:       intParam(q, "display_size"),
		AdUnitName:        q.Get("ad_unit_name"),
		AdUnitSize:        q.Get("ad_unit_size"),
		CallBackFunction:  q.Get("callback_function"),
		CallBackURL:       q.Get("callback_url"),
		DartClickTrackURL: q.Get("dart_click_track_url"),
	}
}

// clientIP prefers an explicit query parameter and falls back to the
// connection's remote address so embedded widgets work without it.
func clientIP(r *http.Request, q url.Values) string {
	if ip := q.Get("client_ip"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func intParam(q url.Values, key string) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}

	return v
}
