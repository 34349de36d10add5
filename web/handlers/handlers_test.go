package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhung/web-widgets/models"
	"github.com/lhung/web-widgets/upstream"
	"github.com/lhung/web-widgets/widget"
)

// stubWidget returns canned results and records the requests it saw.
type stubWidget struct {
	offers  []models.Offer
	profile *models.Profile
	review  *models.Review
	err     error

	offerReq   *models.OfferRequest
	profileReq *models.ProfileRequest
	reviewReq  *models.ReviewRequest
}

func (s *stubWidget) Get(_ context.Context, req *models.OfferRequest) ([]models.Offer, error) {
	s.offerReq = req
	return s.offers, s.err
}

func (s *stubWidget) Profile(_ context.Context, req *models.ProfileRequest) (*models.Profile, error) {
	s.profileReq = req
	return s.profile, s.err
}

func (s *stubWidget) LatestReview(_ context.Context, req *models.ReviewRequest) (*models.Review, error) {
	s.reviewReq = req
	return s.review, s.err
}

func newTestHandlers(stub *stubWidget, houseAds []models.HouseAd) *APIHandlers {
	return NewAPIHandlers(Dependencies{
		Widget:   stub,
		HouseAds: houseAds,
	})
}

func TestOffersHandler(t *testing.T) {
	t.Run("returns offers", func(t *testing.T) {
		stub := &stubWidget{offers: []models.Offer{{ListingID: "L-1"}}}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/offers?publisher=pub1&client_ip=10.0.0.1&where=10001&display_size=2", nil)
		rec := httptest.NewRecorder()

		h.Offers(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

		var body struct {
			Offers []models.Offer `json:"offers"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Offers, 1)
		assert.Equal(t, "L-1", body.Offers[0].ListingID)

		require.NotNil(t, stub.offerReq)
		assert.Equal(t, "pub1", stub.offerReq.Publisher)
		assert.Equal(t, "10.0.0.1", stub.offerReq.ClientIP)
		assert.Equal(t, 2, stub.offerReq.DisplaySize)
	})

	t.Run("validation failure returns every violation", func(t *testing.T) {
		stub := &stubWidget{err: &models.InvalidParametersError{
			Violations: []string{models.RulePublisherRequired, models.RuleWhereRequired},
		}}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/offers", nil)
		rec := httptest.NewRecorder()

		h.Offers(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body apiError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.ElementsMatch(t,
			[]string{models.RulePublisherRequired, models.RuleWhereRequired},
			body.Violations,
		)
	})

	t.Run("pipeline failure serves house ads", func(t *testing.T) {
		houseAds := []models.HouseAd{{Title: "Try our app"}}
		stub := &stubWidget{err: upstream.ErrUnavailable}
		h := newTestHandlers(stub, houseAds)

		req := httptest.NewRequest(http.MethodGet, "/api/offers?publisher=pub1&client_ip=10.0.0.1&where=10001", nil)
		rec := httptest.NewRecorder()

		h.Offers(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Offers   []models.Offer   `json:"offers"`
			HouseAds []models.HouseAd `json:"house_ads"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Empty(t, body.Offers)
		require.Len(t, body.HouseAds, 1)
		assert.Equal(t, "Try our app", body.HouseAds[0].Title)
	})

	t.Run("client ip falls back to remote address", func(t *testing.T) {
		stub := &stubWidget{}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/offers?publisher=pub1&where=10001", nil)
		req.RemoteAddr = "192.0.2.7:4312"
		rec := httptest.NewRecorder()

		h.Offers(rec, req)

		require.NotNil(t, stub.offerReq)
		assert.Equal(t, "192.0.2.7", stub.offerReq.ClientIP)
	})
}

func TestProfileHandler(t *testing.T) {
	t.Run("returns the profile", func(t *testing.T) {
		stub := &stubWidget{profile: &models.Profile{Phone: "2125550100"}}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/profile?publisher=pub1&client_ip=10.0.0.1&listing_id=L-1", nil)
		rec := httptest.NewRecorder()

		h.Profile(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stub.profileReq)
		assert.Equal(t, "L-1", stub.profileReq.ListingID)
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubWidget{err: widget.ErrProfileNotFound}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/profile?publisher=pub1&client_ip=10.0.0.1&listing_id=L-404", nil)
		rec := httptest.NewRecorder()

		h.Profile(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLatestReviewHandler(t *testing.T) {
	t.Run("returns the review", func(t *testing.T) {
		stub := &stubWidget{review: &models.Review{ReviewID: "RV-1"}}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reviews/latest?publisher=pub1&client_ip=10.0.0.1&where=10001&customer_only=true", nil)
		rec := httptest.NewRecorder()

		h.LatestReview(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stub.reviewReq)
		assert.True(t, stub.reviewReq.CustomerOnly)
	})

	t.Run("no qualifying review", func(t *testing.T) {
		stub := &stubWidget{err: widget.ErrNoReview}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reviews/latest?publisher=pub1&client_ip=10.0.0.1&where=10001", nil)
		rec := httptest.NewRecorder()

		h.LatestReview(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		stub := &stubWidget{err: upstream.ErrUnavailable}
		h := newTestHandlers(stub, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reviews/latest?publisher=pub1&client_ip=10.0.0.1&where=10001", nil)
		rec := httptest.NewRecorder()

		h.LatestReview(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	h := newTestHandlers(&stubWidget{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
