package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bengin34/rightyLove/internal/middleware"
	"github.com/bengin34/rightyLove/internal/services"

	"github.com/rs/zerolog/log"
)

// ActivityHandler handles activity ledger and streak HTTP requests
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

type logActivityRequest struct {
	Kind string `json:"kind"`
}

// LogActivity handles POST /api/v1/activity/log
func (h *ActivityHandler) LogActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req logActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.activityService.LogActivity(ctx, userID, req.Kind); err != nil {
		if errors.Is(err, services.ErrUnknownActivity) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("kind", req.Kind).
			Msg("Failed to log activity")
		respondError(w, "failed to log activity", http.StatusInternalServerError)
		return
	}

	// streaks are derived on read, but returning them here saves the client
	// a round trip after every log call
	streak, err := h.activityService.GetStreak(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to recompute streak")
		respondData(w, http.StatusOK, nil)
		return
	}

	respondData(w, http.StatusOK, streak)
}

// GetStreak handles GET /api/v1/activity/streak
func (h *ActivityHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	streak, err := h.activityService.GetStreak(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get streak")
		respondError(w, "failed to get streak", http.StatusInternalServerError)
		return
	}

	respondData(w, http.StatusOK, streak)
}

// GetWeeklyRecap handles GET /api/v1/activity/week
func (h *ActivityHandler) GetWeeklyRecap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	recap, err := h.activityService.GetWeeklyRecap(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get weekly recap")
		respondError(w, "failed to get weekly recap", http.StatusInternalServerError)
		return
	}

	respondData(w, http.StatusOK, recap)
}
