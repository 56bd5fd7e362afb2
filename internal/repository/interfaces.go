package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/selune/lunora/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
}

type BaselinesRepositoryI interface {
	// Inserts or overwrites the user's cycle baseline
	Upsert(ctx context.Context, baseline *entity.CycleBaseline) error
	// Returns the user's baseline or ErrBaselineNotFound
	GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.CycleBaseline, error)
}

type CycleEventsRepositoryI interface {
	// Creates new event. (user_id, event_date) is unique
	Create(ctx context.Context, event *entity.CycleEvent) error
	// Returns the most recent event of given kind (by event date), nil if none
	GetLatestByKind(ctx context.Context, uid uuid.UUID, kind entity.EventKind) (*entity.CycleEvent, error)
	// Returns the most recently created event, nil if none
	GetLatestCreated(ctx context.Context, uid uuid.UUID) (*entity.CycleEvent, error)
	// Deletes event by its id
	Delete(ctx context.Context, id int) error
}

type ForecastsRepositoryI interface {
	// Atomically drops the user's forecast set and inserts the fresh one
	ReplaceForUser(ctx context.Context, uid uuid.UUID, forecasts []entity.PhaseForecast) error
	// Lists the user's forecast rows ordered by date
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.PhaseForecast, error)
	// Returns the forecast row for a single day, nil if none
	GetByUserAndDate(ctx context.Context, uid uuid.UUID, date time.Time) (*entity.PhaseForecast, error)
}

type AdherenceRepositoryI interface {
	// Reads the trailing history and writes the log row derived from it in a
	// single transaction, so no other mark interleaves between the two.
	// Returns the stored streak
	MarkTaken(ctx context.Context, log *entity.AdherenceLog, scanFrom time.Time, streakOf func(history []entity.AdherenceLog) int) (int, error)
	// Inserts or overwrites the log row for (user, date). Last write wins
	Upsert(ctx context.Context, log *entity.AdherenceLog) error
	// Returns log rows within [from, to] ordered by date
	GetRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.AdherenceLog, error)
	// Counts all taken=true rows of the user
	CountTaken(ctx context.Context, uid uuid.UUID) (int, error)
}

type ChallengesRepositoryI interface {
	// Creates challenge, skipping silently when the (user, type) pair exists.
	// Returns true when a row was actually inserted
	CreateIfAbsent(ctx context.Context, challenge *entity.Challenge) (bool, error)
	// Searches challenge with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Challenge, error)
	// Lists all challenges of the user
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Challenge, error)
	// Overwrites progress, status and completion stamp
	SaveProgress(ctx context.Context, id uuid.UUID, progress int, status entity.ChallengeStatus, completedAt *time.Time) error
	// Updates title/description/target of a custom goal
	UpdateCustom(ctx context.Context, challenge *entity.Challenge) error
	// Deletes challenge with id
	Delete(ctx context.Context, id uuid.UUID) error
}

type AchievementsRepositoryI interface {
	// Inserts the achievement once; duplicate unlocks are silently ignored
	Unlock(ctx context.Context, achievement *entity.Achievement) error
	// Lists unlocked achievements of the user
	GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.Achievement, error)
}

type RemindersRepositoryI interface {
	// Inserts or overwrites the user's reminder setting
	Upsert(ctx context.Context, setting *entity.ReminderSetting) error
	// Lists enabled settings whose reminder minute has passed and whose user
	// has no taken=true adherence log for the given day
	ListDue(ctx context.Context, day time.Time, minuteOfDay int) ([]entity.ReminderSetting, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
