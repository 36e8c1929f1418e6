// Package anniversary provides pure date arithmetic for relationship
// durations, upcoming anniversaries and milestone proximity. No I/O; callers
// pass the reference time explicitly.
package anniversary

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Duration is a calendar-aware elapsed span: days are borrowed from the
// previous month and months from years, matching everyday "X years, Y months,
// Z days" phrasing rather than a flat day division.
type Duration struct {
	Years     int `json:"years"`
	Months    int `json:"months"`
	Days      int `json:"days"`
	TotalDays int `json:"total_days"`
}

// NextAnniversary describes the nearest same-month/day occurrence at or after
// the reference date
type NextAnniversary struct {
	Date           time.Time `json:"date"`
	YearsCompleted int       `json:"years_completed"`
	DaysUntil      int       `json:"days_until"`
	IsToday        bool      `json:"is_today"`
	IsThisWeek     bool      `json:"is_this_week"`
	IsThisMonth    bool      `json:"is_this_month"`
}

// MilestoneType distinguishes the milestone tables
type MilestoneType string

const (
	MilestoneDays   MilestoneType = "days"
	MilestoneMonths MilestoneType = "months"
	MilestoneYears  MilestoneType = "years"
)

// Milestone is one upcoming notable duration marker
type Milestone struct {
	Type      MilestoneType `json:"type"`
	Value     int           `json:"value"`
	Date      time.Time     `json:"date"`
	DaysUntil int           `json:"days_until"`
	Label     string        `json:"label"`
}

var dayMilestones = []int{100, 200, 365, 500, 1000, 1500, 2000, 3000, 5000, 10000}
var monthMilestones = []int{6, 18}

const yearMilestoneHorizon = 5

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// CalculateDuration returns the calendar-aware span from start to now
func CalculateDuration(start, now time.Time) Duration {
	start = dateOnly(start)
	now = dateOnly(now)

	totalDays := daysBetween(start, now)

	years := now.Year() - start.Year()
	months := int(now.Month()) - int(start.Month())
	days := now.Day() - start.Day()

	if days < 0 {
		months--
		// day 0 normalizes to the last day of the previous month
		days += time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, time.UTC).Day()
	}
	if months < 0 {
		years--
		months += 12
	}

	return Duration{Years: years, Months: months, Days: days, TotalDays: totalDays}
}

// Next finds the nearest same-month/day anniversary at or after now, rolling
// to next year when this year's has passed
func Next(start, now time.Time) NextAnniversary {
	start = dateOnly(start)
	today := dateOnly(now)

	thisYear := time.Date(today.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var next time.Time
	var yearsCompleted int
	if !thisYear.Before(today) {
		next = thisYear
		yearsCompleted = today.Year() - start.Year()
	} else {
		next = time.Date(today.Year()+1, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		yearsCompleted = today.Year() - start.Year() + 1
	}

	daysUntil := daysBetween(today, next)

	return NextAnniversary{
		Date:           next,
		YearsCompleted: yearsCompleted,
		DaysUntil:      daysUntil,
		IsToday:        daysUntil == 0,
		IsThisWeek:     daysUntil >= 0 && daysUntil <= 7,
		IsThisMonth:    daysUntil >= 0 && daysUntil <= 30,
	}
}

// UpcomingMilestones enumerates future day-count, month and year milestones,
// sorted by proximity, at most limit entries
func UpcomingMilestones(start, now time.Time, limit int) []Milestone {
	start = dateOnly(start)
	today := dateOnly(now)
	duration := CalculateDuration(start, today)

	var milestones []Milestone

	for _, days := range dayMilestones {
		if duration.TotalDays >= days {
			continue
		}
		date := start.AddDate(0, 0, days)
		milestones = append(milestones, Milestone{
			Type:      MilestoneDays,
			Value:     days,
			Date:      date,
			DaysUntil: daysBetween(today, date),
			Label:     fmt.Sprintf("%d days", days),
		})
	}

	totalMonths := duration.Years*12 + duration.Months
	for _, months := range monthMilestones {
		if totalMonths >= months {
			continue
		}
		date := start.AddDate(0, months, 0)
		daysUntil := daysBetween(today, date)
		if daysUntil <= 0 {
			continue
		}
		milestones = append(milestones, Milestone{
			Type:      MilestoneMonths,
			Value:     months,
			Date:      date,
			DaysUntil: daysUntil,
			Label:     fmt.Sprintf("%d months", months),
		})
	}

	for year := duration.Years + 1; year <= duration.Years+yearMilestoneHorizon; year++ {
		date := start.AddDate(year, 0, 0)
		daysUntil := daysBetween(today, date)
		if daysUntil <= 0 {
			continue
		}
		label := fmt.Sprintf("%d years", year)
		if year == 1 {
			label = "1 year"
		}
		milestones = append(milestones, Milestone{
			Type:      MilestoneYears,
			Value:     year,
			Date:      date,
			DaysUntil: daysUntil,
			Label:     label,
		})
	}

	sort.Slice(milestones, func(i, j int) bool {
		return milestones[i].DaysUntil < milestones[j].DaysUntil
	})
	if limit > 0 && len(milestones) > limit {
		milestones = milestones[:limit]
	}
	return milestones
}

// SpecialMilestone reports whether checkDate is an exact day-count milestone,
// a same-month/day yearly anniversary, or the exact six-month mark
type SpecialMilestone struct {
	IsMilestone bool          `json:"is_milestone"`
	Type        MilestoneType `json:"type,omitempty"`
	Value       int           `json:"value,omitempty"`
}

// IsSpecialMilestone answers whether checkDate is a celebration day
func IsSpecialMilestone(start, checkDate time.Time) SpecialMilestone {
	start = dateOnly(start)
	check := dateOnly(checkDate)
	duration := CalculateDuration(start, check)

	for _, days := range dayMilestones {
		if duration.TotalDays == days {
			return SpecialMilestone{IsMilestone: true, Type: MilestoneDays, Value: days}
		}
	}

	if start.Month() == check.Month() && start.Day() == check.Day() {
		years := check.Year() - start.Year()
		if years > 0 {
			return SpecialMilestone{IsMilestone: true, Type: MilestoneYears, Value: years}
		}
	}

	if duration.Years == 0 && duration.Months == 6 && duration.Days == 0 {
		return SpecialMilestone{IsMilestone: true, Type: MilestoneMonths, Value: 6}
	}

	return SpecialMilestone{}
}

// FormatDuration renders a duration as "X years, Y months, Z days", dropping
// zero components
func FormatDuration(d Duration) string {
	var parts []string

	if d.Years > 0 {
		parts = append(parts, plural(d.Years, "year"))
	}
	if d.Months > 0 {
		parts = append(parts, plural(d.Months, "month"))
	}
	if d.Days > 0 || len(parts) == 0 {
		parts = append(parts, plural(d.Days, "day"))
	}

	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
