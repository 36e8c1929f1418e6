package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/repository"
)

// In-memory store fakes. They reproduce the storage contract the services
// rely on: unique keys reported as repository.ErrDuplicate, misses as
// repository.ErrNotFound, and invite redemption as one atomic operation.

type fakeUserStore struct {
	users map[string]*models.User // by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeCoupleStore struct {
	couples map[string]*models.Couple // by id
}

func newFakeCoupleStore() *fakeCoupleStore {
	return &fakeCoupleStore{couples: make(map[string]*models.Couple)}
}

func (f *fakeCoupleStore) Create(_ context.Context, couple *models.Couple) error {
	for _, c := range f.couples {
		if c.MemberB == nil && c.InviteCode == couple.InviteCode {
			return repository.ErrDuplicate
		}
	}
	clone := *couple
	f.couples[couple.ID] = &clone
	return nil
}

func (f *fakeCoupleStore) GetByMember(_ context.Context, userID string) (*models.Couple, error) {
	for _, c := range f.couples {
		if c.IsMember(userID) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCoupleStore) MemberHasCouple(ctx context.Context, userID string) (bool, error) {
	_, err := f.GetByMember(ctx, userID)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeCoupleStore) JoinByCode(ctx context.Context, code, userID string) (*models.Couple, error) {
	var target *models.Couple
	for _, c := range f.couples {
		if c.MemberB == nil && c.InviteCode == code {
			target = c
			break
		}
	}
	if target == nil {
		return nil, repository.ErrCodeNotFound
	}
	if target.MemberA == userID {
		return nil, repository.ErrOwnCouple
	}
	if paired, _ := f.MemberHasCouple(ctx, userID); paired {
		return nil, repository.ErrAlreadyPaired
	}
	member := userID
	target.MemberB = &member
	clone := *target
	return &clone, nil
}

func (f *fakeCoupleStore) Delete(_ context.Context, id string) error {
	if _, ok := f.couples[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.couples, id)
	return nil
}

func (f *fakeCoupleStore) ClearMemberB(_ context.Context, id string) error {
	c, ok := f.couples[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.MemberB = nil
	return nil
}

func (f *fakeCoupleStore) UpdateInviteCode(_ context.Context, id, code string) error {
	c, ok := f.couples[id]
	if !ok || c.MemberB != nil {
		return repository.ErrNotFound
	}
	for _, other := range f.couples {
		if other.ID != id && other.MemberB == nil && other.InviteCode == code {
			return repository.ErrDuplicate
		}
	}
	c.InviteCode = code
	return nil
}

func (f *fakeCoupleStore) UpdateProfile(_ context.Context, id string, relationshipType models.RelationshipType, startedAt *time.Time) error {
	c, ok := f.couples[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.RelationshipType = relationshipType
	c.StartedAt = startedAt
	return nil
}

type fakePromptStore struct {
	questions []models.Question
	prompts   map[string]*models.DailyPrompt // by coupleID|dateKey
	history   map[string]time.Time           // by coupleID|questionID

	// onCreatePrompt simulates the partner's concurrent allocation: called
	// before the insert, it may seed a competing row so the insert conflicts
	onCreatePrompt func()
}

func newFakePromptStore(questions ...models.Question) *fakePromptStore {
	return &fakePromptStore{
		questions: questions,
		prompts:   make(map[string]*models.DailyPrompt),
		history:   make(map[string]time.Time),
	}
}

func promptKey(coupleID, dateKey string) string { return coupleID + "|" + dateKey }

func (f *fakePromptStore) questionByID(id string) *models.Question {
	for i := range f.questions {
		if f.questions[i].ID == id {
			return &f.questions[i]
		}
	}
	return nil
}

func (f *fakePromptStore) GetPrompt(_ context.Context, coupleID, dateKey string) (*models.DailyPrompt, *models.Question, error) {
	p, ok := f.prompts[promptKey(coupleID, dateKey)]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	q := f.questionByID(p.QuestionID)
	if q == nil {
		return nil, nil, repository.ErrNotFound
	}
	promptClone, questionClone := *p, *q
	return &promptClone, &questionClone, nil
}

func (f *fakePromptStore) CreatePrompt(_ context.Context, prompt *models.DailyPrompt) error {
	if f.onCreatePrompt != nil {
		f.onCreatePrompt()
		f.onCreatePrompt = nil
	}
	key := promptKey(prompt.CoupleID, prompt.DateKey)
	if _, ok := f.prompts[key]; ok {
		return repository.ErrDuplicate
	}
	clone := *prompt
	f.prompts[key] = &clone
	return nil
}

func (f *fakePromptStore) PickQuestion(_ context.Context, coupleID string, relationshipType models.RelationshipType, shownSince time.Time) (*models.Question, error) {
	for i := range f.questions {
		q := f.questions[i]
		if len(q.Tags) > 0 && !containsTag(q.Tags, string(relationshipType)) {
			continue
		}
		if shownAt, ok := f.history[coupleID+"|"+q.ID]; ok && shownAt.After(shownSince) {
			continue
		}
		clone := q
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (f *fakePromptStore) RecordHistory(_ context.Context, coupleID, questionID string, shownAt time.Time) error {
	f.history[coupleID+"|"+questionID] = shownAt
	return nil
}

func (f *fakePromptStore) Unlock(_ context.Context, coupleID, dateKey string, at time.Time) (bool, error) {
	p, ok := f.prompts[promptKey(coupleID, dateKey)]
	if !ok || p.UnlockedAt != nil {
		return false, nil
	}
	unlocked := at
	p.UnlockedAt = &unlocked
	return true, nil
}

type fakeAnswerStore struct {
	answers []models.Answer

	// suppressGet makes the precheck miss, forcing the unique-key backstop
	suppressGet bool
}

func newFakeAnswerStore() *fakeAnswerStore { return &fakeAnswerStore{} }

func (f *fakeAnswerStore) Create(_ context.Context, answer *models.Answer) error {
	for _, a := range f.answers {
		if a.CoupleID == answer.CoupleID && a.DateKey == answer.DateKey && a.UserID == answer.UserID {
			return repository.ErrDuplicate
		}
	}
	f.answers = append(f.answers, *answer)
	return nil
}

func (f *fakeAnswerStore) Get(_ context.Context, coupleID, dateKey, userID string) (*models.Answer, error) {
	if f.suppressGet {
		return nil, repository.ErrNotFound
	}
	for i := range f.answers {
		a := f.answers[i]
		if a.CoupleID == coupleID && a.DateKey == dateKey && a.UserID == userID {
			clone := a
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAnswerStore) ListByDay(_ context.Context, coupleID, dateKey string) ([]models.Answer, error) {
	var out []models.Answer
	for _, a := range f.answers {
		if a.CoupleID == coupleID && a.DateKey == dateKey {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeActivityStore struct {
	rows map[string]*models.DailyActivity // by userID|dateKey
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{rows: make(map[string]*models.DailyActivity)}
}

func (f *fakeActivityStore) SetFlag(_ context.Context, userID, dateKey string, flag repository.ActivityFlag) error {
	key := userID + "|" + dateKey
	row, ok := f.rows[key]
	if !ok {
		row = &models.DailyActivity{UserID: userID, DateKey: dateKey}
		f.rows[key] = row
	}
	switch flag {
	case repository.FlagPhoto:
		row.DidPhoto = true
	case repository.FlagMood:
		row.DidMood = true
	case repository.FlagBucket:
		row.DidBucket = true
	case repository.FlagQuestionSubmit:
		row.DidQuestionSubmit = true
	case repository.FlagQuestionUnlock:
		row.DidQuestionUnlock = true
	}
	return nil
}

func (f *fakeActivityStore) ListByUser(_ context.Context, userID string) ([]models.DailyActivity, error) {
	var out []models.DailyActivity
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	return out, nil
}
