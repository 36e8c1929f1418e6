package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bengin34/rightyLove/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles database operations for the question catalog,
// daily prompts and the shown-question history
type QuestionRepository struct {
	db *pgxpool.Pool
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetPrompt retrieves the prompt for (coupleID, dateKey) joined with its question
func (r *QuestionRepository) GetPrompt(ctx context.Context, coupleID, dateKey string) (*models.DailyPrompt, *models.Question, error) {
	query := `
		SELECT p.couple_id, p.date_key, p.question_id, p.created_at, p.unlocked_at,
		       q.id, q.text, q.tags
		FROM daily_prompts p
		JOIN questions q ON q.id = p.question_id
		WHERE p.couple_id = $1 AND p.date_key = $2
	`
	var prompt models.DailyPrompt
	var question models.Question
	err := r.db.QueryRow(ctx, query, coupleID, dateKey).Scan(
		&prompt.CoupleID, &prompt.DateKey, &prompt.QuestionID, &prompt.CreatedAt, &prompt.UnlockedAt,
		&question.ID, &question.Text, &question.Tags,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get daily prompt: %w", err)
	}
	return &prompt, &question, nil
}

// CreatePrompt inserts the prompt row for (coupleID, dateKey).
// Returns ErrDuplicate when the partner's concurrent request created it
// first; the caller is expected to re-read rather than fail.
func (r *QuestionRepository) CreatePrompt(ctx context.Context, prompt *models.DailyPrompt) error {
	query := `
		INSERT INTO daily_prompts (couple_id, date_key, question_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, prompt.CoupleID, prompt.DateKey, prompt.QuestionID, prompt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create daily prompt: %w", err)
	}
	return nil
}

// PickQuestion selects one random catalog question for the couple, excluding
// anything shown to it since the cutoff and filtering by relationship type.
// Selection and history exclusion happen in a single statement. Returns
// ErrNotFound when no candidate remains; repeats are never returned.
func (r *QuestionRepository) PickQuestion(ctx context.Context, coupleID string, relationshipType models.RelationshipType, shownSince time.Time) (*models.Question, error) {
	query := `
		SELECT q.id, q.text, q.tags
		FROM questions q
		WHERE ($2 = ANY(q.tags) OR q.tags = '{}')
		  AND NOT EXISTS (
			SELECT 1 FROM question_history h
			WHERE h.couple_id = $1 AND h.question_id = q.id AND h.shown_at > $3
		  )
		ORDER BY random()
		LIMIT 1
	`
	var question models.Question
	err := r.db.QueryRow(ctx, query, coupleID, string(relationshipType), shownSince).Scan(
		&question.ID, &question.Text, &question.Tags,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to pick question: %w", err)
	}
	return &question, nil
}

// RecordHistory upserts the (couple, question) history row, refreshing shown_at
func (r *QuestionRepository) RecordHistory(ctx context.Context, coupleID, questionID string, shownAt time.Time) error {
	query := `
		INSERT INTO question_history (couple_id, question_id, shown_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (couple_id, question_id) DO UPDATE SET shown_at = EXCLUDED.shown_at
	`
	if _, err := r.db.Exec(ctx, query, coupleID, questionID, shownAt); err != nil {
		return fmt.Errorf("failed to record question history: %w", err)
	}
	return nil
}

// Unlock sets unlocked_at for the prompt if and only if it is still null.
// Returns true when this call performed the transition.
func (r *QuestionRepository) Unlock(ctx context.Context, coupleID, dateKey string, at time.Time) (bool, error) {
	query := `
		UPDATE daily_prompts
		SET unlocked_at = $3
		WHERE couple_id = $1 AND date_key = $2 AND unlocked_at IS NULL
	`
	result, err := r.db.Exec(ctx, query, coupleID, dateKey, at)
	if err != nil {
		return false, fmt.Errorf("failed to unlock prompt: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
