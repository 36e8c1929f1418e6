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

// CoupleRepository handles database operations for couples
type CoupleRepository struct {
	db *pgxpool.Pool
}

// NewCoupleRepository creates a new couple repository
func NewCoupleRepository(db *pgxpool.Pool) *CoupleRepository {
	return &CoupleRepository{db: db}
}

const coupleColumns = `id, member_a, member_b, relationship_type, started_at, invite_code, created_at`

func scanCouple(row pgx.Row) (*models.Couple, error) {
	var couple models.Couple
	err := row.Scan(
		&couple.ID, &couple.MemberA, &couple.MemberB, &couple.RelationshipType,
		&couple.StartedAt, &couple.InviteCode, &couple.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

// Create creates a new couple row with an empty member_b.
// Returns ErrDuplicate when the invite code collides with another
// unresolved couple (partial unique index on invite_code).
func (r *CoupleRepository) Create(ctx context.Context, couple *models.Couple) error {
	query := `
		INSERT INTO couples (id, member_a, relationship_type, invite_code, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		couple.ID, couple.MemberA, couple.RelationshipType, couple.InviteCode, couple.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create couple: %w", err)
	}
	return nil
}

// GetByMember retrieves the couple where userID is member_a or member_b
func (r *CoupleRepository) GetByMember(ctx context.Context, userID string) (*models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE member_a = $1 OR member_b = $1
		LIMIT 1
	`
	couple, err := scanCouple(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get couple by member: %w", err)
	}
	return couple, nil
}

// MemberHasCouple checks if a user already belongs to a couple
func (r *CoupleRepository) MemberHasCouple(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM couples WHERE member_a = $1 OR member_b = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check couple membership: %w", err)
	}
	return exists, nil
}

// JoinByCode redeems an invite code for userID in a single transaction.
// The unresolved couple row is locked before the membership checks so two
// concurrent joiners cannot both pass the empty-member_b check. Returns
// ErrCodeNotFound, ErrOwnCouple or ErrAlreadyPaired on rejection.
func (r *CoupleRepository) JoinByCode(ctx context.Context, code, userID string) (*models.Couple, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin join transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE invite_code = $1 AND member_b IS NULL
		FOR UPDATE
	`
	couple, err := scanCouple(tx.QueryRow(ctx, lockQuery, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if couple.MemberA == userID {
		return nil, ErrOwnCouple
	}

	var paired bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM couples WHERE member_a = $1 OR member_b = $1)`
	if err := tx.QueryRow(ctx, checkQuery, userID).Scan(&paired); err != nil {
		return nil, fmt.Errorf("failed to check joiner membership: %w", err)
	}
	if paired {
		return nil, ErrAlreadyPaired
	}

	if _, err := tx.Exec(ctx, `UPDATE couples SET member_b = $1 WHERE id = $2`, userID, couple.ID); err != nil {
		return nil, fmt.Errorf("failed to set member_b: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}

	couple.MemberB = &userID
	return couple, nil
}

// Delete deletes a couple row outright (member_a initiated unpair)
func (r *CoupleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM couples WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete couple: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearMemberB removes member_b, keeping the row (member_b initiated unpair)
func (r *CoupleRepository) ClearMemberB(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `UPDATE couples SET member_b = NULL WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to clear member_b: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateInviteCode replaces the invite code of an unresolved couple.
// Returns ErrDuplicate when the new code collides.
func (r *CoupleRepository) UpdateInviteCode(ctx context.Context, id, code string) error {
	query := `UPDATE couples SET invite_code = $1 WHERE id = $2 AND member_b IS NULL`
	result, err := r.db.Exec(ctx, query, code, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update invite code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile sets the relationship type and start date
func (r *CoupleRepository) UpdateProfile(ctx context.Context, id string, relationshipType models.RelationshipType, startedAt *time.Time) error {
	query := `UPDATE couples SET relationship_type = $1, started_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, relationshipType, startedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update couple profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
