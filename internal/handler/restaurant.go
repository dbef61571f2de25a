package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/tastebud/internal/apperror"
	"github.com/sakif/tastebud/internal/auth"
	"github.com/sakif/tastebud/internal/model"
	"github.com/sakif/tastebud/internal/recommend"
	"github.com/sakif/tastebud/internal/repository"
)

// RestaurantHandler serves the read-only catalogue and the per-user
// recommendation view over it.
type RestaurantHandler struct {
	restaurants repository.RestaurantRepository
	prefs       repository.PreferenceRepository
	logger      *slog.Logger
}

func NewRestaurantHandler(
	restaurants repository.RestaurantRepository,
	prefs repository.PreferenceRepository,
	logger *slog.Logger,
) *RestaurantHandler {
	return &RestaurantHandler{
		restaurants: restaurants,
		prefs:       prefs,
		logger:      logger,
	}
}

// HandleList returns the whole catalogue, list fields expanded. Public —
// no auth.
//
// HTTP: GET /api/restaurants
func (h *RestaurantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurants.ListRestaurants(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurants)
}

// HandleRecommendations returns the catalogue filtered by the caller's
// saved preferences. A caller with no preferences row gets the full
// catalogue.
//
// HTTP: GET /api/restaurants/recommended (user or admin)
func (h *RestaurantHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Authentication required"))
		return
	}

	restaurants, err := h.restaurants.ListRestaurants(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var prefs *model.UserPreferences
	prefs, err = h.prefs.Get(r.Context(), claims.UserID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			writeError(w, err)
			return
		}
		prefs = nil
	}

	writeJSON(w, http.StatusOK, recommend.Filter(restaurants, prefs))
}
