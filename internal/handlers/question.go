package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bengin34/rightyLove/internal/middleware"
	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/services"

	"github.com/rs/zerolog/log"
)

// QuestionHandler handles daily-question HTTP requests
type QuestionHandler struct {
	questionService *services.QuestionService
	coupleService   *services.CoupleService
	wsHub           *services.WSHub
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *services.QuestionService, coupleService *services.CoupleService, wsHub *services.WSHub) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		coupleService:   coupleService,
		wsHub:           wsHub,
	}
}

func questionStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrCoupleNotComplete), errors.Is(err, services.ErrNotInCouple):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrNoQuestions):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrAlreadyAnswered):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrEmptyAnswer):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotUnlocked):
		return http.StatusForbidden, err.Error()
	}
	return http.StatusInternalServerError, ""
}

func (h *QuestionHandler) respondQuestionError(w http.ResponseWriter, err error, fallback string) {
	statusCode, message := questionStatus(err)
	if message == "" {
		message = fallback
	}
	respondError(w, message, statusCode)
}

// currentCouple resolves the actor's couple, translating "unpaired" into the
// couple-not-complete rejection
func (h *QuestionHandler) currentCouple(ctx context.Context, userID string) (*models.Couple, error) {
	couple, err := h.coupleService.GetCurrentCouple(ctx, userID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, services.ErrCoupleNotComplete
	}
	return couple, nil
}

// GetDaily handles GET /api/v1/questions/daily
func (h *QuestionHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.currentCouple(ctx, userID)
	if err != nil {
		h.respondQuestionError(w, err, "failed to get daily question")
		return
	}

	resp, err := h.questionService.GetDailyQuestion(ctx, userID, couple)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("couple_id", couple.ID).
			Msg("Failed to get daily question")
		h.respondQuestionError(w, err, "failed to get daily question")
		return
	}

	if resp.JustUnlocked {
		h.notifyUnlocked(couple, resp.Prompt.DateKey)
	}

	respondData(w, http.StatusOK, resp)
}

type submitAnswerRequest struct {
	Text string `json:"text"`
}

// SubmitAnswer handles POST /api/v1/questions/daily/answer
func (h *QuestionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	couple, err := h.currentCouple(ctx, userID)
	if err != nil {
		h.respondQuestionError(w, err, "failed to submit answer")
		return
	}

	result, err := h.questionService.SubmitAnswer(ctx, userID, couple, req.Text)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("couple_id", couple.ID).
			Msg("Failed to submit answer")
		h.respondQuestionError(w, err, "failed to submit answer")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Str("date_key", result.Answer.DateKey).
		Bool("unlocked", result.Unlocked).
		Msg("Answer submitted")

	if partnerID := couple.PartnerOf(userID); partnerID != "" {
		h.wsHub.NotifyAnswerSubmitted(partnerID, result.Answer.DateKey)
	}
	if result.Unlocked {
		h.notifyUnlocked(couple, result.Answer.DateKey)
	}

	respondData(w, http.StatusCreated, result)
}

// GetRevealedAnswers handles GET /api/v1/questions/daily/answers
func (h *QuestionHandler) GetRevealedAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.currentCouple(ctx, userID)
	if err != nil {
		h.respondQuestionError(w, err, "failed to get answers")
		return
	}

	myAnswer, partnerAnswer, err := h.questionService.GetRevealedAnswers(ctx, userID, couple)
	if err != nil {
		if !errors.Is(err, services.ErrNotUnlocked) {
			log.Error().
				Err(err).
				Str("user_id", userID).
				Str("couple_id", couple.ID).
				Msg("Failed to get revealed answers")
		}
		h.respondQuestionError(w, err, "failed to get answers")
		return
	}

	respondData(w, http.StatusOK, map[string]*models.Answer{
		"my_answer":      myAnswer,
		"partner_answer": partnerAnswer,
	})
}

func (h *QuestionHandler) notifyUnlocked(couple *models.Couple, dateKey string) {
	h.wsHub.NotifyQuestionUnlocked(couple.MemberA, dateKey)
	if couple.MemberB != nil {
		h.wsHub.NotifyQuestionUnlocked(*couple.MemberB, dateKey)
	}
}
