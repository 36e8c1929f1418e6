package services

import (
	"context"
	"time"

	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/repository"
)

// Store interfaces mirror the pgx repositories so tests can substitute
// in-memory fakes. Implementations signal misses with repository.ErrNotFound
// and unique-key collisions with repository.ErrDuplicate.

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CoupleStore persists couples. JoinByCode must redeem the invite code as one
// atomic operation, rejecting with repository.ErrCodeNotFound,
// repository.ErrOwnCouple or repository.ErrAlreadyPaired.
type CoupleStore interface {
	Create(ctx context.Context, couple *models.Couple) error
	GetByMember(ctx context.Context, userID string) (*models.Couple, error)
	MemberHasCouple(ctx context.Context, userID string) (bool, error)
	JoinByCode(ctx context.Context, code, userID string) (*models.Couple, error)
	Delete(ctx context.Context, id string) error
	ClearMemberB(ctx context.Context, id string) error
	UpdateInviteCode(ctx context.Context, id, code string) error
	UpdateProfile(ctx context.Context, id string, relationshipType models.RelationshipType, startedAt *time.Time) error
}

// PromptStore persists daily prompts, the question catalog view and history
type PromptStore interface {
	GetPrompt(ctx context.Context, coupleID, dateKey string) (*models.DailyPrompt, *models.Question, error)
	CreatePrompt(ctx context.Context, prompt *models.DailyPrompt) error
	PickQuestion(ctx context.Context, coupleID string, relationshipType models.RelationshipType, shownSince time.Time) (*models.Question, error)
	RecordHistory(ctx context.Context, coupleID, questionID string, shownAt time.Time) error
	Unlock(ctx context.Context, coupleID, dateKey string, at time.Time) (bool, error)
}

// AnswerStore persists answers
type AnswerStore interface {
	Create(ctx context.Context, answer *models.Answer) error
	Get(ctx context.Context, coupleID, dateKey, userID string) (*models.Answer, error)
	ListByDay(ctx context.Context, coupleID, dateKey string) ([]models.Answer, error)
}

// ActivityStore persists the per-user daily activity ledger
type ActivityStore interface {
	SetFlag(ctx context.Context, userID, dateKey string, flag repository.ActivityFlag) error
	ListByUser(ctx context.Context, userID string) ([]models.DailyActivity, error)
}
