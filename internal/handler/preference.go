package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/tastebud/internal/apperror"
	"github.com/sakif/tastebud/internal/auth"
	"github.com/sakif/tastebud/internal/model"
	"github.com/sakif/tastebud/internal/repository"
)

// PreferenceHandler serves the authenticated subject's own preferences.
// The subject comes from the verified token claims, never from the request
// body or path.
type PreferenceHandler struct {
	prefs  repository.PreferenceRepository
	logger *slog.Logger
}

func NewPreferenceHandler(prefs repository.PreferenceRepository, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, logger: logger}
}

// updatePreferencesRequest — every field is optional and defaults to empty,
// so a partial body clears the omitted fields (overwrite semantics, not a
// patch).
type updatePreferencesRequest struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	CuisinePreferences  []string `json:"cuisinePreferences"`
	PriceRange          []int    `json:"priceRange"`
	Allergies           []string `json:"allergies"`
}

// HandleGet returns the caller's preferences, or an empty JSON object if
// they never set any.
//
// HTTP: GET /api/user/preferences (user or admin)
func (h *PreferenceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		// Unreachable behind the middleware, but don't serve an
		// unauthenticated request by accident.
		writeError(w, apperror.Unauthorized("Authentication required"))
		return
	}

	prefs, err := h.prefs.Get(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, struct{}{})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// HandleUpdate upserts the caller's preferences row.
//
// HTTP: PUT /api/user/preferences (user or admin)
func (h *PreferenceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Authentication required"))
		return
	}

	var req updatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("Invalid request body"))
		return
	}

	prefs := &model.UserPreferences{
		UserID:              claims.UserID,
		DietaryRestrictions: emptyIfNil(req.DietaryRestrictions),
		CuisinePreferences:  emptyIfNil(req.CuisinePreferences),
		PriceRange:          req.PriceRange,
		Allergies:           emptyIfNil(req.Allergies),
	}
	if err := h.prefs.Upsert(r.Context(), prefs); err != nil {
		h.logger.Error("preferences upsert failed",
			slog.String("userID", claims.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Preferences updated successfully"})
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
