package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bengin34/rightyLove/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnswerRepository handles database operations for answers
type AnswerRepository struct {
	db *pgxpool.Pool
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create inserts an answer. The primary key on (couple_id, date_key, user_id)
// makes a second submission for the same day fail with ErrDuplicate even when
// it races past the service-level precheck.
func (r *AnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	query := `
		INSERT INTO answers (couple_id, date_key, user_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		answer.CoupleID, answer.DateKey, answer.UserID, answer.Text, answer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

// Get retrieves one member's answer for a day
func (r *AnswerRepository) Get(ctx context.Context, coupleID, dateKey, userID string) (*models.Answer, error) {
	query := `
		SELECT couple_id, date_key, user_id, text, created_at
		FROM answers
		WHERE couple_id = $1 AND date_key = $2 AND user_id = $3
	`
	var answer models.Answer
	err := r.db.QueryRow(ctx, query, coupleID, dateKey, userID).Scan(
		&answer.CoupleID, &answer.DateKey, &answer.UserID, &answer.Text, &answer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return &answer, nil
}

// ListByDay retrieves all answers for (coupleID, dateKey)
func (r *AnswerRepository) ListByDay(ctx context.Context, coupleID, dateKey string) ([]models.Answer, error) {
	query := `
		SELECT couple_id, date_key, user_id, text, created_at
		FROM answers
		WHERE couple_id = $1 AND date_key = $2
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, coupleID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var answer models.Answer
		err := rows.Scan(
			&answer.CoupleID, &answer.DateKey, &answer.UserID, &answer.Text, &answer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, answer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}

	return answers, nil
}
