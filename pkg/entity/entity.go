package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

// CycleBaseline holds the per-user cycle parameters the forecast is seeded
// from. LutealLength must be strictly less than CycleLength.
type CycleBaseline struct {
	UserID          uuid.UUID `json:"uid"`
	CycleLength     int       `json:"cycle_length"`
	LutealLength    int       `json:"luteal_length"`
	LastPeriodStart time.Time `json:"last_period_start"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type EventKind string

const (
	EventPeriodStart EventKind = "period_start"
	EventPeriodEnd   EventKind = "period_end"
	EventOvulation   EventKind = "ovulation"
)

// CycleEvent is an append-style log entry, at most one per (user, date).
type CycleEvent struct {
	ID        int       `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Date      time.Time `json:"date"`
	Kind      EventKind `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type Phase string

const (
	PhaseMenstrual  Phase = "menstrual"
	PhaseFollicular Phase = "follicular"
	PhaseOvulatory  Phase = "ovulatory"
	PhaseLuteal     Phase = "luteal"
)

// PhaseForecast is derived state: the whole per-user set is thrown away and
// regenerated on every rebuild.
type PhaseForecast struct {
	UserID     uuid.UUID `json:"uid"`
	Date       time.Time `json:"date"`
	Phase      Phase     `json:"phase"`
	Confidence float64   `json:"confidence"`
}

type AdherenceLog struct {
	UserID      uuid.UUID `json:"uid"`
	Date        time.Time `json:"date"`
	Taken       bool      `json:"taken"`
	StreakCount int       `json:"streak_count"`
	LoggedAt    time.Time `json:"logged_at"`
}

type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
)

// CustomGoalMeta carries the user-authored title and description of a custom
// challenge. Nil on preset challenges; its presence is the variant tag.
type CustomGoalMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Challenge struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"uid"`
	Type        string          `json:"type"`
	Target      int             `json:"target"`
	Progress    int             `json:"progress"`
	Status      ChallengeStatus `json:"status"`
	Emoji       string          `json:"emoji"`
	Custom      *CustomGoalMeta `json:"custom,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Achievement struct {
	UserID     uuid.UUID `json:"uid"`
	Type       string    `json:"type"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ReminderSetting drives the cron-side "who is due a supplement reminder"
// computation. RemindMinute is minutes from midnight.
type ReminderSetting struct {
	UserID       uuid.UUID `json:"uid"`
	Enabled      bool      `json:"enabled"`
	RemindMinute int       `json:"remind_minute"`
}
