package repository

import (
	"context"
	"fmt"

	"github.com/bengin34/rightyLove/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityFlag names one boolean column of the daily activity ledger
type ActivityFlag string

const (
	FlagPhoto          ActivityFlag = "did_photo"
	FlagMood           ActivityFlag = "did_mood"
	FlagBucket         ActivityFlag = "did_bucket"
	FlagQuestionSubmit ActivityFlag = "did_question_submit"
	FlagQuestionUnlock ActivityFlag = "did_question_unlock"
)

var activityColumns = map[ActivityFlag]bool{
	FlagPhoto:          true,
	FlagMood:           true,
	FlagBucket:         true,
	FlagQuestionSubmit: true,
	FlagQuestionUnlock: true,
}

// ActivityRepository handles database operations for the daily activity ledger
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// SetFlag marks one activity flag true for (userID, dateKey).
// The upsert only ever ORs flags on: a flag set true is never cleared.
func (r *ActivityRepository) SetFlag(ctx context.Context, userID, dateKey string, flag ActivityFlag) error {
	if !activityColumns[flag] {
		return fmt.Errorf("unknown activity flag %q", flag)
	}
	// flag is validated against the closed column set above
	query := fmt.Sprintf(`
		INSERT INTO daily_activity (user_id, date_key, %[1]s)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, date_key) DO UPDATE SET %[1]s = TRUE
	`, flag)
	if _, err := r.db.Exec(ctx, query, userID, dateKey); err != nil {
		return fmt.Errorf("failed to set activity flag: %w", err)
	}
	return nil
}

// ListByUser retrieves the full activity ledger for a user, newest first
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string) ([]models.DailyActivity, error) {
	query := `
		SELECT user_id, date_key, did_photo, did_mood, did_bucket,
		       did_question_submit, did_question_unlock
		FROM daily_activity
		WHERE user_id = $1
		ORDER BY date_key DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var activities []models.DailyActivity
	for rows.Next() {
		var a models.DailyActivity
		err := rows.Scan(
			&a.UserID, &a.DateKey, &a.DidPhoto, &a.DidMood, &a.DidBucket,
			&a.DidQuestionSubmit, &a.DidQuestionUnlock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return activities, nil
}
