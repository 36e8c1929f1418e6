package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/repository"

	"github.com/rs/zerolog/log"
)

// repeatWindow is how far back the shown-question history counts as "recent".
// Approximate by intent: staleness only affects variety, never the unlock
// protocol.
const repeatWindow = 60 * 24 * time.Hour

var (
	ErrCoupleNotComplete = errors.New("couple not complete")
	ErrNoQuestions       = errors.New("no questions available")
	ErrAlreadyAnswered   = errors.New("already answered today")
	ErrEmptyAnswer       = errors.New("answer text is required")
	ErrNotUnlocked       = errors.New("not unlocked yet")
)

// QuestionService implements the daily prompt allocator and the answer
// exchange with its unlock gate
type QuestionService struct {
	prompts  PromptStore
	answers  AnswerStore
	activity *ActivityService
	now      func() time.Time
}

// NewQuestionService creates a new question service
func NewQuestionService(prompts PromptStore, answers AnswerStore, activity *ActivityService) *QuestionService {
	return &QuestionService{
		prompts:  prompts,
		answers:  answers,
		activity: activity,
		now:      time.Now,
	}
}

// dateKey returns today's synchronization key, UTC calendar date
func (s *QuestionService) dateKey() string {
	return s.now().UTC().Format("2006-01-02")
}

// getOrCreatePrompt materializes the prompt for (couple, dateKey). Exactly one
// prompt per couple per day: a unique-key conflict means the partner's request
// created it first, and the benign loser re-reads instead of erroring.
func (s *QuestionService) getOrCreatePrompt(ctx context.Context, couple *models.Couple, dateKey string) (*models.DailyPrompt, *models.Question, error) {
	prompt, question, err := s.prompts.GetPrompt(ctx, couple.ID, dateKey)
	if err == nil {
		return prompt, question, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	relationshipType := couple.RelationshipType
	if !relationshipType.Valid() {
		relationshipType = models.RelationshipDating
	}

	picked, err := s.prompts.PickQuestion(ctx, couple.ID, relationshipType, s.now().Add(-repeatWindow))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// never fall back to a repeat
			return nil, nil, ErrNoQuestions
		}
		return nil, nil, err
	}

	newPrompt := &models.DailyPrompt{
		CoupleID:   couple.ID,
		DateKey:    dateKey,
		QuestionID: picked.ID,
		CreatedAt:  s.now(),
	}
	err = s.prompts.CreatePrompt(ctx, newPrompt)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// partner won the allocation race; converge on their question
			return s.prompts.GetPrompt(ctx, couple.ID, dateKey)
		}
		return nil, nil, err
	}

	if err := s.prompts.RecordHistory(ctx, couple.ID, picked.ID, s.now()); err != nil {
		// history is variety bookkeeping only, the prompt already exists
		log.Error().Err(err).
			Str("couple_id", couple.ID).
			Str("question_id", picked.ID).
			Msg("Failed to record question history")
	}

	return newPrompt, picked, nil
}

// GetDailyQuestion returns the daily view for one member, lazily allocating
// the prompt. The read path performs the unlock check too: both answers may
// already exist without either submitter having observed the pair complete.
func (s *QuestionService) GetDailyQuestion(ctx context.Context, userID string, couple *models.Couple) (*models.DailyResponse, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if couple == nil || !couple.IsComplete() {
		return nil, ErrCoupleNotComplete
	}

	dateKey := s.dateKey()

	prompt, question, err := s.getOrCreatePrompt(ctx, couple, dateKey)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByDay(ctx, couple.ID, dateKey)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, userID, couple, prompt, question, answers)
}

// buildResponse derives the member view and runs the unlock transition when
// the second distinct answer is present but unlocked_at is still null
func (s *QuestionService) buildResponse(ctx context.Context, userID string, couple *models.Couple, prompt *models.DailyPrompt, question *models.Question, answers []models.Answer) (*models.DailyResponse, error) {
	var myAnswer, partnerAnswer *models.Answer
	for i := range answers {
		if answers[i].UserID == userID {
			myAnswer = &answers[i]
		} else {
			partnerAnswer = &answers[i]
		}
	}
	isUnlocked := myAnswer != nil && partnerAnswer != nil

	justUnlocked := false
	if isUnlocked && prompt.UnlockedAt == nil {
		at := s.now()
		won, err := s.prompts.Unlock(ctx, couple.ID, prompt.DateKey, at)
		if err != nil {
			return nil, err
		}
		if won {
			prompt.UnlockedAt = &at
			justUnlocked = true
			s.logUnlock(ctx, couple, prompt.DateKey)
		} else {
			// partner's request performed the transition first
			refreshed, _, err := s.prompts.GetPrompt(ctx, couple.ID, prompt.DateKey)
			if err == nil {
				prompt.UnlockedAt = refreshed.UnlockedAt
			}
		}
	}

	status := models.StatusNotAnswered
	switch {
	case prompt.UnlockedAt != nil:
		status = models.StatusUnlocked
	case myAnswer != nil:
		status = models.StatusWaiting
	}

	resp := &models.DailyResponse{
		Prompt:       *prompt,
		Question:     *question,
		MyStatus:     status,
		IsUnlocked:   prompt.UnlockedAt != nil,
		MyAnswer:     myAnswer,
		JustUnlocked: justUnlocked,
	}
	if prompt.UnlockedAt != nil {
		resp.PartnerAnswer = partnerAnswer
	}
	return resp, nil
}

// SubmitResult reports a stored answer and whether this submission unlocked
// the day
type SubmitResult struct {
	Answer   *models.Answer `json:"answer"`
	Unlocked bool           `json:"unlocked"`
}

// SubmitAnswer records the member's single answer for today and flips the
// prompt to unlocked exactly when the second distinct answer lands. Whichever
// submission arrives second observes two authors on its re-read and performs
// the transition, so the outcome is independent of arrival order.
func (s *QuestionService) SubmitAnswer(ctx context.Context, userID string, couple *models.Couple, text string) (*SubmitResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if couple == nil || !couple.IsComplete() {
		return nil, ErrCoupleNotComplete
	}
	if text == "" {
		return nil, ErrEmptyAnswer
	}

	dateKey := s.dateKey()

	// prompt must exist before an answer can reference it
	if _, _, err := s.getOrCreatePrompt(ctx, couple, dateKey); err != nil {
		return nil, err
	}

	if _, err := s.answers.Get(ctx, couple.ID, dateKey, userID); err == nil {
		return nil, ErrAlreadyAnswered
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	answer := &models.Answer{
		CoupleID:  couple.ID,
		DateKey:   dateKey,
		UserID:    userID,
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// raced our own precheck; the unique key is the backstop
			return nil, ErrAlreadyAnswered
		}
		return nil, err
	}

	if err := s.activity.LogQuestionSubmit(ctx, userID, dateKey); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to log question submit")
	}

	result := &SubmitResult{Answer: answer}

	// re-read after write: the second submitter sees two authors and unlocks
	answers, err := s.answers.ListByDay(ctx, couple.ID, dateKey)
	if err != nil {
		// the answer is durably stored; the unlock will be discovered on the
		// next read by either party
		log.Error().Err(err).
			Str("couple_id", couple.ID).
			Str("date_key", dateKey).
			Msg("Failed to re-read answers after submit")
		return result, nil
	}

	authors := map[string]bool{}
	for _, a := range answers {
		authors[a.UserID] = true
	}
	if len(authors) == 2 {
		won, err := s.prompts.Unlock(ctx, couple.ID, dateKey, s.now())
		if err != nil {
			log.Error().Err(err).
				Str("couple_id", couple.ID).
				Str("date_key", dateKey).
				Msg("Failed to unlock prompt after submit")
			return result, nil
		}
		if won {
			result.Unlocked = true
			s.logUnlock(ctx, couple, dateKey)
		}
	}

	return result, nil
}

// GetRevealedAnswers returns both answers, only once the day is unlocked
func (s *QuestionService) GetRevealedAnswers(ctx context.Context, userID string, couple *models.Couple) (myAnswer, partnerAnswer *models.Answer, err error) {
	if userID == "" {
		return nil, nil, ErrNotAuthenticated
	}
	if couple == nil || !couple.IsComplete() {
		return nil, nil, ErrCoupleNotComplete
	}

	dateKey := s.dateKey()

	prompt, _, err := s.prompts.GetPrompt(ctx, couple.ID, dateKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotUnlocked
		}
		return nil, nil, err
	}
	if prompt.UnlockedAt == nil {
		return nil, nil, ErrNotUnlocked
	}

	answers, err := s.answers.ListByDay(ctx, couple.ID, dateKey)
	if err != nil {
		return nil, nil, err
	}
	if len(answers) != 2 {
		// an unlocked prompt with fewer than two answers should not happen;
		// degrade to not-unlocked rather than fail the process
		log.Warn().
			Str("couple_id", couple.ID).
			Str("date_key", dateKey).
			Int("answers", len(answers)).
			Msg("Unlocked prompt with unexpected answer count")
		return nil, nil, ErrNotUnlocked
	}

	for i := range answers {
		if answers[i].UserID == userID {
			myAnswer = &answers[i]
		} else {
			partnerAnswer = &answers[i]
		}
	}
	if myAnswer == nil || partnerAnswer == nil {
		return nil, nil, fmt.Errorf("answers do not include both members")
	}
	return myAnswer, partnerAnswer, nil
}

// logUnlock records the couple-unlock event on both members' ledgers:
// unlocking is a couple event, not a per-device one
func (s *QuestionService) logUnlock(ctx context.Context, couple *models.Couple, dateKey string) {
	members := []string{couple.MemberA}
	if couple.MemberB != nil {
		members = append(members, *couple.MemberB)
	}
	for _, member := range members {
		if err := s.activity.LogQuestionUnlock(ctx, member, dateKey); err != nil {
			log.Error().Err(err).
				Str("user_id", member).
				Str("date_key", dateKey).
				Msg("Failed to log question unlock")
		}
	}
}
