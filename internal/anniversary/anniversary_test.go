package anniversary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDuration(t *testing.T) {
	// 2024 is a leap year, so day 100 lands on April 10
	d := CalculateDuration(date(2024, time.January, 1), date(2024, time.April, 10))
	assert.Equal(t, Duration{Years: 0, Months: 3, Days: 9, TotalDays: 100}, d)
}

func TestCalculateDuration_BorrowsDaysFromPreviousMonth(t *testing.T) {
	// day-of-month went backwards: borrow February's 29 days
	d := CalculateDuration(date(2024, time.January, 15), date(2024, time.March, 10))
	assert.Equal(t, Duration{Years: 0, Months: 1, Days: 24, TotalDays: 55}, d)
}

func TestCalculateDuration_WholeYears(t *testing.T) {
	d := CalculateDuration(date(2020, time.June, 15), date(2024, time.June, 15))
	assert.Equal(t, 4, d.Years)
	assert.Equal(t, 0, d.Months)
	assert.Equal(t, 0, d.Days)
}

func TestCalculateDuration_SameDay(t *testing.T) {
	now := date(2024, time.April, 10)
	d := CalculateDuration(now, now)
	assert.Equal(t, Duration{}, d)
}

func TestCalculateDuration_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, time.January, 1, 23, 50, 0, 0, time.UTC)
	now := time.Date(2024, time.January, 2, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 1, CalculateDuration(start, now).TotalDays)
}

func TestNext_RollsToNextYear(t *testing.T) {
	next := Next(date(2024, time.January, 1), date(2024, time.April, 10))

	assert.Equal(t, date(2025, time.January, 1), next.Date)
	assert.Equal(t, 1, next.YearsCompleted)
	assert.Equal(t, 266, next.DaysUntil)
	assert.False(t, next.IsToday)
	assert.False(t, next.IsThisMonth)
}

func TestNext_AnniversaryToday(t *testing.T) {
	next := Next(date(2020, time.June, 15), date(2024, time.June, 15))

	assert.Equal(t, date(2024, time.June, 15), next.Date)
	assert.Equal(t, 4, next.YearsCompleted)
	assert.Zero(t, next.DaysUntil)
	assert.True(t, next.IsToday)
	assert.True(t, next.IsThisWeek)
}

func TestNext_WithinWeek(t *testing.T) {
	next := Next(date(2020, time.June, 18), date(2024, time.June, 15))

	assert.Equal(t, 3, next.DaysUntil)
	assert.True(t, next.IsThisWeek)
	assert.True(t, next.IsThisMonth)
	assert.False(t, next.IsToday)
}

func TestUpcomingMilestones(t *testing.T) {
	got := UpcomingMilestones(date(2024, time.January, 1), date(2024, time.April, 10), 3)
	require.Len(t, got, 3)

	// nearest first: six months, then 200 days, then 365 days
	assert.Equal(t, MilestoneMonths, got[0].Type)
	assert.Equal(t, 6, got[0].Value)
	assert.Equal(t, 82, got[0].DaysUntil)
	assert.Equal(t, date(2024, time.July, 1), got[0].Date)

	assert.Equal(t, MilestoneDays, got[1].Type)
	assert.Equal(t, 200, got[1].Value)
	assert.Equal(t, 100, got[1].DaysUntil)

	assert.Equal(t, MilestoneDays, got[2].Type)
	assert.Equal(t, 365, got[2].Value)
	assert.Equal(t, 265, got[2].DaysUntil)
}

func TestUpcomingMilestones_SkipsReached(t *testing.T) {
	got := UpcomingMilestones(date(2024, time.January, 1), date(2024, time.April, 10), 0)
	for _, m := range got {
		assert.Positive(t, m.DaysUntil, "milestone %q already passed", m.Label)
	}
	if assert.NotEmpty(t, got) {
		assert.NotEqual(t, 100, got[0].Value, "the 100-day mark is today, not upcoming")
	}
}

func TestUpcomingMilestones_OneYearLabel(t *testing.T) {
	got := UpcomingMilestones(date(2024, time.January, 1), date(2024, time.December, 1), 10)

	var labels []string
	for _, m := range got {
		labels = append(labels, m.Label)
	}
	assert.Contains(t, labels, "1 year")
}

func TestIsSpecialMilestone_DayCount(t *testing.T) {
	got := IsSpecialMilestone(date(2024, time.January, 1), date(2024, time.April, 10))
	assert.True(t, got.IsMilestone)
	assert.Equal(t, MilestoneDays, got.Type)
	assert.Equal(t, 100, got.Value)

	assert.False(t, IsSpecialMilestone(date(2024, time.January, 1), date(2024, time.April, 11)).IsMilestone)
}

func TestIsSpecialMilestone_Yearly(t *testing.T) {
	got := IsSpecialMilestone(date(2020, time.June, 15), date(2024, time.June, 15))
	assert.True(t, got.IsMilestone)
	assert.Equal(t, MilestoneYears, got.Type)
	assert.Equal(t, 4, got.Value)

	// the start date itself is not an anniversary
	assert.False(t, IsSpecialMilestone(date(2020, time.June, 15), date(2020, time.June, 15)).IsMilestone)
}

func TestIsSpecialMilestone_SixMonths(t *testing.T) {
	got := IsSpecialMilestone(date(2024, time.January, 1), date(2024, time.July, 1))
	assert.True(t, got.IsMilestone)
	assert.Equal(t, MilestoneMonths, got.Type)
	assert.Equal(t, 6, got.Value)
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    Duration
		want string
	}{
		{Duration{}, "0 days"},
		{Duration{Days: 1}, "1 day"},
		{Duration{Months: 3}, "3 months"},
		{Duration{Years: 2, Days: 5}, "2 years, 5 days"},
		{Duration{Years: 1, Months: 1, Days: 1}, "1 year, 1 month, 1 day"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.d))
	}
}
