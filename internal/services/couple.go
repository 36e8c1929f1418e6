package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/repository"

	"github.com/google/uuid"
)

const (
	inviteCodeLength = 6
	inviteCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeMaxAttempts  = 10
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAlreadyInCouple  = errors.New("already in a couple")
	ErrNotInCouple      = errors.New("not in a couple")
	ErrInvalidCode      = errors.New("invalid or already used code")
	ErrCannotJoinOwn    = errors.New("cannot join own couple")
	ErrCoupleComplete   = errors.New("couple is already complete")
	ErrInvalidStartDate = errors.New("start date cannot be in the future")
	ErrUnknownRelType   = errors.New("unknown relationship type")
)

// CoupleService implements pairing: invite codes, the two-member couple
// relation and its asymmetric teardown
type CoupleService struct {
	couples CoupleStore
	now     func() time.Time
}

// NewCoupleService creates a new couple service
func NewCoupleService(couples CoupleStore) *CoupleService {
	return &CoupleService{couples: couples, now: time.Now}
}

// generateInviteCode draws 6 characters uniformly from [A-Z0-9]
func generateInviteCode() string {
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		code[i] = inviteCodeChars[n.Int64()]
	}
	return string(code)
}

// CreateCouple creates a pending couple with the actor as member_a and a
// fresh invite code. Code collisions among unresolved couples are retried.
func (s *CoupleService) CreateCouple(ctx context.Context, userID string) (*models.Couple, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	hasCouple, err := s.couples.MemberHasCouple(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if hasCouple {
		return nil, ErrAlreadyInCouple
	}

	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		couple := &models.Couple{
			ID:               uuid.New().String(),
			MemberA:          userID,
			RelationshipType: models.RelationshipDating,
			InviteCode:       generateInviteCode(),
			CreatedAt:        s.now(),
		}
		err := s.couples.Create(ctx, couple)
		if err == nil {
			return couple, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create couple: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to generate unique invite code after %d attempts", codeMaxAttempts)
}

// JoinCouple redeems an invite code for the actor. The whole check-and-join
// runs as one atomic operation inside the store.
func (s *CoupleService) JoinCouple(ctx context.Context, userID, code string) (*models.Couple, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != inviteCodeLength {
		return nil, ErrInvalidCode
	}

	couple, err := s.couples.JoinByCode(ctx, code, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCodeNotFound):
			return nil, ErrInvalidCode
		case errors.Is(err, repository.ErrOwnCouple):
			return nil, ErrCannotJoinOwn
		case errors.Is(err, repository.ErrAlreadyPaired):
			return nil, ErrAlreadyInCouple
		}
		return nil, fmt.Errorf("failed to join couple: %w", err)
	}
	return couple, nil
}

// GetCurrentCouple returns the actor's couple, or nil when unpaired.
// Being unpaired is not an error.
func (s *CoupleService) GetCurrentCouple(ctx context.Context, userID string) (*models.Couple, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	couple, err := s.couples.GetByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	return couple, nil
}

// Unpair dissolves the actor's side of the couple. member_a deletes the row
// outright; member_b only vacates their seat, leaving member_a free to
// re-share or regenerate the code. The row belongs to its creator.
func (s *CoupleService) Unpair(ctx context.Context, userID string) (*models.Couple, error) {
	couple, err := s.requireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	if couple.MemberA == userID {
		if err := s.couples.Delete(ctx, couple.ID); err != nil {
			return nil, fmt.Errorf("failed to delete couple: %w", err)
		}
	} else {
		if err := s.couples.ClearMemberB(ctx, couple.ID); err != nil {
			return nil, fmt.Errorf("failed to leave couple: %w", err)
		}
	}
	return couple, nil
}

// RegenerateInviteCode replaces the invite code while member_b is still empty
func (s *CoupleService) RegenerateInviteCode(ctx context.Context, userID string) (string, error) {
	couple, err := s.requireCouple(ctx, userID)
	if err != nil {
		return "", err
	}

	if couple.IsComplete() {
		return "", ErrCoupleComplete
	}

	for attempt := 0; attempt < codeMaxAttempts; attempt++ {
		code := generateInviteCode()
		err := s.couples.UpdateInviteCode(ctx, couple.ID, code)
		if err == nil {
			return code, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrCoupleComplete
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return "", fmt.Errorf("failed to regenerate code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to generate unique invite code after %d attempts", codeMaxAttempts)
}

// SetRelationshipProfile records the relationship type and start date used by
// question selection and the anniversary endpoint
func (s *CoupleService) SetRelationshipProfile(ctx context.Context, userID string, relationshipType models.RelationshipType, startedAt *time.Time) (*models.Couple, error) {
	couple, err := s.requireCouple(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !relationshipType.Valid() {
		return nil, ErrUnknownRelType
	}
	if startedAt != nil && startedAt.After(s.now()) {
		return nil, ErrInvalidStartDate
	}

	if err := s.couples.UpdateProfile(ctx, couple.ID, relationshipType, startedAt); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	couple.RelationshipType = relationshipType
	couple.StartedAt = startedAt
	return couple, nil
}

func (s *CoupleService) requireCouple(ctx context.Context, userID string) (*models.Couple, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	couple, err := s.couples.GetByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotInCouple
		}
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	return couple, nil
}
