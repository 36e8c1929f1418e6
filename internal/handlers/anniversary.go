package handlers

import (
	"net/http"
	"time"

	"github.com/bengin34/rightyLove/internal/anniversary"
	"github.com/bengin34/rightyLove/internal/middleware"
	"github.com/bengin34/rightyLove/internal/services"

	"github.com/rs/zerolog/log"
)

const upcomingMilestoneLimit = 3

// AnniversaryHandler serves relationship duration and milestone data
type AnniversaryHandler struct {
	coupleService *services.CoupleService
}

// NewAnniversaryHandler creates a new anniversary handler
func NewAnniversaryHandler(coupleService *services.CoupleService) *AnniversaryHandler {
	return &AnniversaryHandler{coupleService: coupleService}
}

type anniversaryResponse struct {
	Duration          anniversary.Duration         `json:"duration"`
	DurationText      string                       `json:"duration_text"`
	NextAnniversary   anniversary.NextAnniversary  `json:"next_anniversary"`
	UpcomingMilestone []anniversary.Milestone      `json:"upcoming_milestones"`
	Today             anniversary.SpecialMilestone `json:"today"`
}

// GetAnniversary handles GET /api/v1/anniversary
func (h *AnniversaryHandler) GetAnniversary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.GetCurrentCouple(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get couple")
		respondError(w, "failed to get anniversary", http.StatusInternalServerError)
		return
	}
	if couple == nil {
		respondError(w, "not in a couple", http.StatusNotFound)
		return
	}
	if couple.StartedAt == nil {
		respondError(w, "start date not set", http.StatusConflict)
		return
	}

	start := *couple.StartedAt
	now := time.Now()

	duration := anniversary.CalculateDuration(start, now)
	respondData(w, http.StatusOK, anniversaryResponse{
		Duration:          duration,
		DurationText:      anniversary.FormatDuration(duration),
		NextAnniversary:   anniversary.Next(start, now),
		UpcomingMilestone: anniversary.UpcomingMilestones(start, now, upcomingMilestoneLimit),
		Today:             anniversary.IsSpecialMilestone(start, now),
	})
}
