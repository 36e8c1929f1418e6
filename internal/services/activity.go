package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bengin34/rightyLove/internal/models"
	"github.com/bengin34/rightyLove/internal/repository"
)

const dateKeyLayout = "2006-01-02"

// ErrUnknownActivity rejects activity kinds outside the closed set
var ErrUnknownActivity = errors.New("unknown activity kind")

// deviceActivityFlags are the kinds a client may report directly.
// question_submit and question_unlock are only ever logged by the answer
// exchange itself.
var deviceActivityFlags = map[string]repository.ActivityFlag{
	"photo":  repository.FlagPhoto,
	"mood":   repository.FlagMood,
	"bucket": repository.FlagBucket,
}

// ActivityService maintains the per-user daily activity ledger and derives
// streaks from it. Streak values are recomputed from the raw ledger on every
// read; there is no counter state that could drift from the rows.
type ActivityService struct {
	activities ActivityStore
	now        func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(activities ActivityStore) *ActivityService {
	return &ActivityService{activities: activities, now: time.Now}
}

// LogActivity records a device-reported activity kind for today
func (s *ActivityService) LogActivity(ctx context.Context, userID, kind string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	flag, ok := deviceActivityFlags[kind]
	if !ok {
		return ErrUnknownActivity
	}
	return s.activities.SetFlag(ctx, userID, s.todayKey(), flag)
}

// LogQuestionSubmit marks today's question-submitted flag
func (s *ActivityService) LogQuestionSubmit(ctx context.Context, userID, dateKey string) error {
	return s.activities.SetFlag(ctx, userID, dateKey, repository.FlagQuestionSubmit)
}

// LogQuestionUnlock marks today's couple-unlock flag
func (s *ActivityService) LogQuestionUnlock(ctx context.Context, userID, dateKey string) error {
	return s.activities.SetFlag(ctx, userID, dateKey, repository.FlagQuestionUnlock)
}

// GetStreak recomputes all four streak numbers from the full ledger
func (s *ActivityService) GetStreak(ctx context.Context, userID string) (*models.StreakData, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	activities, err := s.activities.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity ledger: %w", err)
	}
	streak := computeStreaks(activities, s.today())
	return &streak, nil
}

// GetWeeklyRecap summarizes the current Monday-Sunday week
func (s *ActivityService) GetWeeklyRecap(ctx context.Context, userID string) (*models.WeeklyRecap, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	activities, err := s.activities.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity ledger: %w", err)
	}

	byDate := indexByDate(activities)
	week := weekDates(s.today())

	recap := &models.WeeklyRecap{
		WeekStartDate: week[0],
		WeekEndDate:   week[len(week)-1],
	}
	for _, dateKey := range week {
		a, ok := byDate[dateKey]
		if !ok {
			continue
		}
		if a.IsActive() {
			recap.ActiveDays++
		}
		if a.DidPhoto {
			recap.PhotoDays++
		}
		if a.DidMood {
			recap.MoodDays++
		}
		if a.DidQuestionSubmit {
			recap.QuestionsAnswered++
		}
		if a.DidQuestionUnlock {
			recap.QuestionsUnlocked++
		}
		if a.DidBucket {
			recap.BucketDaysComplete++
		}
	}
	return recap, nil
}

func (s *ActivityService) today() time.Time {
	return dateOnly(s.now().UTC())
}

func (s *ActivityService) todayKey() string {
	return s.today().Format(dateKeyLayout)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func indexByDate(activities []models.DailyActivity) map[string]models.DailyActivity {
	byDate := make(map[string]models.DailyActivity, len(activities))
	for _, a := range activities {
		byDate[a.DateKey] = a
	}
	return byDate
}

// weekDates returns the seven dateKeys of the ISO week containing today,
// Monday first
func weekDates(today time.Time) []string {
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -offset)

	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = monday.AddDate(0, 0, i).Format(dateKeyLayout)
	}
	return dates
}

// backwardStreak counts consecutive days satisfying active, walking back from
// today. A gap, including "today has nothing yet", ends the count.
func backwardStreak(byDate map[string]models.DailyActivity, today time.Time, active func(models.DailyActivity) bool) int {
	streak := 0
	for day := today; ; day = day.AddDate(0, 0, -1) {
		a, ok := byDate[day.Format(dateKeyLayout)]
		if !ok || !active(a) {
			break
		}
		streak++
	}
	return streak
}

// computeStreaks derives all streak numbers from the raw ledger
func computeStreaks(activities []models.DailyActivity, today time.Time) models.StreakData {
	byDate := indexByDate(activities)

	currentStreak := backwardStreak(byDate, today, models.DailyActivity.IsActive)
	unlockStreak := backwardStreak(byDate, today, func(a models.DailyActivity) bool {
		return a.DidQuestionUnlock
	})

	// longest: scan active days newest-first; a run continues while rows
	// differ by exactly one calendar day
	var activeDays []time.Time
	for _, a := range activities {
		if !a.IsActive() {
			continue
		}
		day, err := time.ParseInLocation(dateKeyLayout, a.DateKey, time.UTC)
		if err != nil {
			continue
		}
		activeDays = append(activeDays, day)
	}
	sort.Slice(activeDays, func(i, j int) bool { return activeDays[i].After(activeDays[j]) })

	longest, run := 0, 0
	var last time.Time
	for _, day := range activeDays {
		if run == 0 || int(last.Sub(day).Hours()/24) == 1 {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
		last = day
	}
	if run > longest {
		longest = run
	}
	// the still-open current run may itself be the longest
	if currentStreak > longest {
		longest = currentStreak
	}

	activeThisWeek := 0
	for _, dateKey := range weekDates(today) {
		if a, ok := byDate[dateKey]; ok && a.IsActive() {
			activeThisWeek++
		}
	}

	return models.StreakData{
		CurrentStreak:      currentStreak,
		LongestStreak:      longest,
		ActiveDaysThisWeek: activeThisWeek,
		CoupleUnlockStreak: unlockStreak,
	}
}
