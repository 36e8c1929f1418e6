package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bengin34/rightyLove/internal/middleware"
	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/services"

	"github.com/rs/zerolog/log"
)

// CoupleHandler handles pairing HTTP requests
type CoupleHandler struct {
	coupleService *services.CoupleService
	wsHub         *services.WSHub
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(coupleService *services.CoupleService, wsHub *services.WSHub) *CoupleHandler {
	return &CoupleHandler{
		coupleService: coupleService,
		wsHub:         wsHub,
	}
}

// coupleStatus maps the pairing error vocabulary to HTTP status codes
func coupleStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrAlreadyInCouple),
		errors.Is(err, services.ErrCoupleComplete),
		errors.Is(err, services.ErrCannotJoinOwn):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidCode):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrNotInCouple):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrUnknownRelType),
		errors.Is(err, services.ErrInvalidStartDate):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, ""
}

func (h *CoupleHandler) respondCoupleError(w http.ResponseWriter, err error, fallback string) {
	statusCode, message := coupleStatus(err)
	if message == "" {
		message = fallback
	}
	respondError(w, message, statusCode)
}

// CreateCouple handles POST /api/v1/couples
func (h *CoupleHandler) CreateCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.CreateCouple(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create couple")
		h.respondCoupleError(w, err, "failed to create couple")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Msg("Couple created")

	respondData(w, http.StatusCreated, couple)
}

type joinCoupleRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinCouple handles POST /api/v1/couples/join
func (h *CoupleHandler) JoinCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req joinCoupleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.InviteCode == "" {
		respondError(w, "invite_code is required", http.StatusBadRequest)
		return
	}

	couple, err := h.coupleService.JoinCouple(ctx, userID, req.InviteCode)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to join couple")
		h.respondCoupleError(w, err, "failed to join couple")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Msg("Couple joined")

	// the creator has been waiting for this moment
	h.wsHub.NotifyPairJoined(couple.MemberA, couple.ID, time.Now())

	respondData(w, http.StatusOK, couple)
}

// GetCurrentCouple handles GET /api/v1/couples/current.
// Being unpaired is not an error: the response carries a null couple.
func (h *CoupleHandler) GetCurrentCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.GetCurrentCouple(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get couple")
		h.respondCoupleError(w, err, "failed to get couple")
		return
	}

	respondData(w, http.StatusOK, couple)
}

// Unpair handles DELETE /api/v1/couples/current
func (h *CoupleHandler) Unpair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.Unpair(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to unpair")
		h.respondCoupleError(w, err, "failed to unpair")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Msg("Couple unpaired")

	if partnerID := couple.PartnerOf(userID); partnerID != "" {
		h.wsHub.NotifyPairDissolved(partnerID)
	} else if couple.MemberA != userID {
		h.wsHub.NotifyPairDissolved(couple.MemberA)
	}

	respondData(w, http.StatusOK, nil)
}

// RegenerateInviteCode handles POST /api/v1/couples/current/invite-code
func (h *CoupleHandler) RegenerateInviteCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	code, err := h.coupleService.RegenerateInviteCode(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to regenerate invite code")
		h.respondCoupleError(w, err, "failed to regenerate code")
		return
	}

	respondData(w, http.StatusOK, map[string]string{"invite_code": code})
}

type profileRequest struct {
	RelationshipType string `json:"relationship_type"`
	StartedAt        string `json:"started_at,omitempty"` // YYYY-MM-DD
}

// SetProfile handles PUT /api/v1/couples/current/profile
func (h *CoupleHandler) SetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var startedAt *time.Time
	if req.StartedAt != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.StartedAt, time.UTC)
		if err != nil {
			respondError(w, "started_at must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		startedAt = &parsed
	}

	couple, err := h.coupleService.SetRelationshipProfile(ctx, userID, models.RelationshipType(req.RelationshipType), startedAt)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to set couple profile")
		h.respondCoupleError(w, err, "failed to update profile")
		return
	}

	respondData(w, http.StatusOK, couple)
}
