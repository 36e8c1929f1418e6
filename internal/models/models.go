package models

import "time"

// RelationshipType categorizes a couple for question selection
type RelationshipType string

const (
	RelationshipDating       RelationshipType = "dating"
	RelationshipMarried      RelationshipType = "married"
	RelationshipLongDistance RelationshipType = "long-distance"
)

// Valid reports whether t is a known relationship type
func (t RelationshipType) Valid() bool {
	switch t {
	case RelationshipDating, RelationshipMarried, RelationshipLongDistance:
		return true
	}
	return false
}

// QuestionStatus is the display status of today's question for one member
type QuestionStatus string

const (
	StatusNotAnswered QuestionStatus = "not_answered"
	StatusWaiting     QuestionStatus = "waiting"
	StatusUnlocked    QuestionStatus = "unlocked"
)

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	AuthHash  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Couple represents the pairing relationship between two users.
// MemberB is nil while the invite code is unresolved.
type Couple struct {
	ID               string           `json:"id"`
	MemberA          string           `json:"member_a"`
	MemberB          *string          `json:"member_b,omitempty"`
	RelationshipType RelationshipType `json:"relationship_type"`
	StartedAt        *time.Time       `json:"started_at,omitempty"`
	InviteCode       string           `json:"invite_code"`
	CreatedAt        time.Time        `json:"created_at"`
}

// IsComplete reports whether both members have joined
func (c *Couple) IsComplete() bool {
	return c.MemberB != nil && *c.MemberB != ""
}

// IsMember reports whether userID belongs to the couple
func (c *Couple) IsMember(userID string) bool {
	return c.MemberA == userID || (c.MemberB != nil && *c.MemberB == userID)
}

// PartnerOf returns the other member's id, or "" if the couple is incomplete
func (c *Couple) PartnerOf(userID string) string {
	if c.MemberB == nil {
		return ""
	}
	if c.MemberA == userID {
		return *c.MemberB
	}
	return c.MemberA
}

// Question is a static catalog entry
type Question struct {
	ID   string   `json:"id"`
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// DailyPrompt is the single question allocated to a couple for one day.
// Keyed by (CoupleID, DateKey); UnlockedAt transitions nil -> timestamp once.
type DailyPrompt struct {
	CoupleID   string     `json:"couple_id"`
	DateKey    string     `json:"date_key"`
	QuestionID string     `json:"question_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Answer is one member's answer for one day, immutable once created
type Answer struct {
	CoupleID  string    `json:"couple_id"`
	DateKey   string    `json:"date_key"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyResponse is the full daily-question view for one member
type DailyResponse struct {
	Prompt        DailyPrompt    `json:"prompt"`
	Question      Question       `json:"question"`
	MyStatus      QuestionStatus `json:"my_status"`
	IsUnlocked    bool           `json:"is_unlocked"`
	MyAnswer      *Answer        `json:"my_answer,omitempty"`
	PartnerAnswer *Answer        `json:"partner_answer,omitempty"`
	// JustUnlocked is set when this request performed the unlock transition
	JustUnlocked bool `json:"-"`
}

// DailyActivity is a per-user per-day boolean ledger row.
// Flags are monotonic: once true for a date they are never cleared.
type DailyActivity struct {
	UserID            string `json:"user_id"`
	DateKey           string `json:"date_key"`
	DidPhoto          bool   `json:"did_photo"`
	DidMood           bool   `json:"did_mood"`
	DidBucket         bool   `json:"did_bucket"`
	DidQuestionSubmit bool   `json:"did_question_submit"`
	DidQuestionUnlock bool   `json:"did_question_unlock"`
}

// IsActive reports whether the day counts toward streaks.
// Question unlock is excluded: it depends on the partner's action too.
func (a DailyActivity) IsActive() bool {
	return a.DidPhoto || a.DidMood || a.DidBucket || a.DidQuestionSubmit
}

// StreakData is derived from the activity ledger, never stored
type StreakData struct {
	CurrentStreak      int `json:"current_streak"`
	LongestStreak      int `json:"longest_streak"`
	ActiveDaysThisWeek int `json:"active_days_this_week"`
	CoupleUnlockStreak int `json:"couple_unlock_streak"`
}

// WeeklyRecap summarizes the current Monday-Sunday week
type WeeklyRecap struct {
	WeekStartDate      string `json:"week_start_date"`
	WeekEndDate        string `json:"week_end_date"`
	ActiveDays         int    `json:"active_days"`
	PhotoDays          int    `json:"photo_days"`
	MoodDays           int    `json:"mood_days"`
	QuestionsAnswered  int    `json:"questions_answered"`
	QuestionsUnlocked  int    `json:"questions_unlocked"`
	BucketDaysComplete int    `json:"bucket_days_complete"`
}
