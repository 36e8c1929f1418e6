package services

import (
	"context"
	"testing"
	"time"

	"github.com/bengin34/rightyLove/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a Thursday; the containing week runs 2025-03-03 through 2025-03-09
var activityNow = time.Date(2025, 3, 6, 15, 0, 0, 0, time.UTC)

func newActivityFixture() (*ActivityService, *fakeActivityStore) {
	store := newFakeActivityStore()
	svc := NewActivityService(store)
	svc.now = func() time.Time { return activityNow }
	return svc, store
}

func mark(t *testing.T, store *fakeActivityStore, userID, dateKey string, flags ...repository.ActivityFlag) {
	t.Helper()
	for _, flag := range flags {
		require.NoError(t, store.SetFlag(context.Background(), userID, dateKey, flag))
	}
}

func TestLogActivity(t *testing.T) {
	svc, store := newActivityFixture()
	ctx := context.Background()

	require.NoError(t, svc.LogActivity(ctx, "user-a", "photo"))
	require.NoError(t, svc.LogActivity(ctx, "user-a", "mood"))

	row := store.rows["user-a|2025-03-06"]
	require.NotNil(t, row)
	assert.True(t, row.DidPhoto)
	assert.True(t, row.DidMood)
	assert.False(t, row.DidBucket)

	// repeat logging is a no-op, never an error
	require.NoError(t, svc.LogActivity(ctx, "user-a", "photo"))
	assert.True(t, store.rows["user-a|2025-03-06"].DidPhoto)
}

func TestLogActivity_UnknownKind(t *testing.T) {
	svc, _ := newActivityFixture()

	err := svc.LogActivity(context.Background(), "user-a", "question_unlock")
	assert.ErrorIs(t, err, ErrUnknownActivity)

	err = svc.LogActivity(context.Background(), "user-a", "meditation")
	assert.ErrorIs(t, err, ErrUnknownActivity)
}

func TestLogActivity_Unauthenticated(t *testing.T) {
	svc, _ := newActivityFixture()

	err := svc.LogActivity(context.Background(), "", "photo")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGetStreak_GapResetsCurrent(t *testing.T) {
	svc, store := newActivityFixture()

	// Mon and Tue active, Wed missed, Thu (today) active
	mark(t, store, "user-a", "2025-03-03", repository.FlagPhoto)
	mark(t, store, "user-a", "2025-03-04", repository.FlagMood)
	mark(t, store, "user-a", "2025-03-06", repository.FlagPhoto)

	streak, err := svc.GetStreak(context.Background(), "user-a")
	require.NoError(t, err)

	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
	assert.Equal(t, 3, streak.ActiveDaysThisWeek)
	assert.Equal(t, 0, streak.CoupleUnlockStreak)
}

func TestGetStreak_NothingTodayMeansZero(t *testing.T) {
	svc, store := newActivityFixture()

	mark(t, store, "user-a", "2025-03-04", repository.FlagPhoto)
	mark(t, store, "user-a", "2025-03-05", repository.FlagPhoto)

	streak, err := svc.GetStreak(context.Background(), "user-a")
	require.NoError(t, err)

	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestGetStreak_LongestSurvivesGaps(t *testing.T) {
	svc, store := newActivityFixture()

	// a three-day run weeks ago beats the one-day run ending today
	mark(t, store, "user-a", "2025-02-10", repository.FlagPhoto)
	mark(t, store, "user-a", "2025-02-11", repository.FlagBucket)
	mark(t, store, "user-a", "2025-02-12", repository.FlagMood)
	mark(t, store, "user-a", "2025-03-06", repository.FlagPhoto)

	streak, err := svc.GetStreak(context.Background(), "user-a")
	require.NoError(t, err)

	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
}

func TestGetStreak_UnlockDoesNotCountAsActive(t *testing.T) {
	svc, store := newActivityFixture()

	mark(t, store, "user-a", "2025-03-05", repository.FlagQuestionUnlock)
	mark(t, store, "user-a", "2025-03-06", repository.FlagQuestionUnlock)

	streak, err := svc.GetStreak(context.Background(), "user-a")
	require.NoError(t, err)

	// unlock needs the partner too, so it tracks its own streak only
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.ActiveDaysThisWeek)
	assert.Equal(t, 2, streak.CoupleUnlockStreak)
}

func TestGetStreak_SubmitCountsAsActive(t *testing.T) {
	svc, store := newActivityFixture()

	mark(t, store, "user-a", "2025-03-06", repository.FlagQuestionSubmit)

	streak, err := svc.GetStreak(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
}

func TestGetStreak_EmptyLedger(t *testing.T) {
	svc, _ := newActivityFixture()

	streak, err := svc.GetStreak(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Zero(t, streak.CurrentStreak)
	assert.Zero(t, streak.LongestStreak)
	assert.Zero(t, streak.ActiveDaysThisWeek)
	assert.Zero(t, streak.CoupleUnlockStreak)
}

func TestGetWeeklyRecap(t *testing.T) {
	svc, store := newActivityFixture()
	ctx := context.Background()

	mark(t, store, "user-a", "2025-03-03", repository.FlagPhoto, repository.FlagQuestionSubmit)
	mark(t, store, "user-a", "2025-03-04", repository.FlagMood, repository.FlagQuestionSubmit, repository.FlagQuestionUnlock)
	mark(t, store, "user-a", "2025-03-06", repository.FlagBucket)
	// last week never leaks into this one
	mark(t, store, "user-a", "2025-02-28", repository.FlagPhoto)

	recap, err := svc.GetWeeklyRecap(ctx, "user-a")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-03", recap.WeekStartDate)
	assert.Equal(t, "2025-03-09", recap.WeekEndDate)
	assert.Equal(t, 3, recap.ActiveDays)
	assert.Equal(t, 1, recap.PhotoDays)
	assert.Equal(t, 1, recap.MoodDays)
	assert.Equal(t, 2, recap.QuestionsAnswered)
	assert.Equal(t, 1, recap.QuestionsUnlocked)
	assert.Equal(t, 1, recap.BucketDaysComplete)
}

func TestWeekDates_MondayFirst(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	week := weekDates(sunday)
	assert.Equal(t, "2025-03-03", week[0])
	assert.Equal(t, "2025-03-09", week[6])

	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-03", weekDates(monday)[0])
}
