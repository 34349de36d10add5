// Package handlers contains the HTTP handlers exposing the widget pipeline.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lhung/web-widgets/models"
)

// WidgetService is the slice of the pipeline the handlers need.
type WidgetService interface {
	Get(ctx context.Context, req *models.OfferRequest) ([]models.Offer, error)
	Profile(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error)
	LatestReview(ctx context.Context, req *models.ReviewRequest) (*models.Review, error)
}

// Dependencies aggregates the shared services used by handlers.
type Dependencies struct {
	Logger   *zap.Logger
	Widget   WidgetService
	HouseAds []models.HouseAd
}

// APIHandlers serves the JSON widget API.
type APIHandlers struct{ Deps Dependencies }

// NewAPIHandlers constructs the handler group, defaulting a nop logger.
func NewAPIHandlers(deps Dependencies) *APIHandlers {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &APIHandlers{Deps: deps}
}

type apiError struct {
	Code       int      `json:"code"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
}

func renderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
