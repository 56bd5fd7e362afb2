package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/selune/lunora/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type BaselineRequest struct {
	CycleLength     int       `validate:"required,min=21,max=45"`
	LutealLength    int       `validate:"required,min=10,max=16,ltfield=CycleLength"`
	LastPeriodStart time.Time `validate:"required"`
}

type CustomGoalRequest struct {
	Title       string `validate:"required,min=1,max=100"`
	Description string `validate:"max=500"`
	Target      int    `validate:"required,min=1,max=365"`
	Emoji       string `validate:"max=16"`
}

type ReminderRequest struct {
	Enabled    bool
	RemindTime string `validate:"required,reminder_time"`
}

type ForecastResult struct {
	ForecastsGenerated int       `json:"forecastsGenerated"`
	StartDate          time.Time `json:"startDate"`
}

type CoachContext struct {
	Baseline      *entity.CycleBaseline `json:"baseline,omitempty"`
	TodayPhase    *entity.PhaseForecast `json:"today_phase,omitempty"`
	CurrentStreak int                   `json:"current_streak"`
	TotalTaken    int                   `json:"total_taken"`
	Challenges    []*entity.Challenge   `json:"challenges"`
	Achievements  []entity.Achievement  `json:"achievements"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type ForecastServiceI interface {
	// Drops and regenerates the user's 90-day forecast window from the
	// baseline and period history. Idempotent given unchanged inputs
	Rebuild(ctx context.Context, uid uuid.UUID) (*ForecastResult, error)
	GetWindow(ctx context.Context, uid uuid.UUID) ([]entity.PhaseForecast, error)
}

type CycleServiceI interface {
	// Validates and upserts the baseline, then rebuilds the forecast
	SaveBaseline(ctx context.Context, uid uuid.UUID, req *BaselineRequest) (*entity.CycleBaseline, error)
	GetBaseline(ctx context.Context, uid uuid.UUID) (*entity.CycleBaseline, error)
	// Logs a cycle event; period_start re-anchors the forecast
	AddEvent(ctx context.Context, uid uuid.UUID, kind string, date time.Time) (*entity.CycleEvent, error)
	// Removes the caller's most recent event if it was created within 24h
	UndoLastEvent(ctx context.Context, uid uuid.UUID) (*entity.CycleEvent, error)
}

type AdherenceServiceI interface {
	// Upserts the adherence log for (uid, date) with a recomputed streak and
	// kicks the challenge/achievement evaluators. Returns the new streak
	MarkTaken(ctx context.Context, uid uuid.UUID, date time.Time, taken bool) (int, error)
	GetRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.AdherenceLog, error)
}

type ChallengeServiceI interface {
	// Recomputes progress of every active challenge from history. Progress
	// never decreases; completion is one-way
	UpdateProgress(ctx context.Context, uid uuid.UUID, date time.Time, streak int) error
	List(ctx context.Context, uid uuid.UUID) ([]*entity.Challenge, error)
	CreateCustom(ctx context.Context, uid uuid.UUID, req *CustomGoalRequest) (*entity.Challenge, error)
	UpdateCustom(ctx context.Context, id, uid uuid.UUID, req *CustomGoalRequest) (*entity.Challenge, error)
	DeleteCustom(ctx context.Context, id, uid uuid.UUID) error
}

type AchievementServiceI interface {
	// Unlocks every achievement whose predicate holds. Re-running never
	// duplicates or revokes
	Check(ctx context.Context, uid uuid.UUID, streak int) error
	List(ctx context.Context, uid uuid.UUID) ([]entity.Achievement, error)
}

type ReminderServiceI interface {
	SaveSetting(ctx context.Context, uid uuid.UUID, req *ReminderRequest) (*entity.ReminderSetting, error)
	// DueAt lists users whose reminder should fire at the given moment
	DueAt(ctx context.Context, now time.Time) ([]entity.ReminderSetting, error)
}

type CoachServiceI interface {
	// Aggregate snapshot for the external AI-coach collaborator
	BuildContext(ctx context.Context, uid uuid.UUID, now time.Time) (*CoachContext, error)
}
