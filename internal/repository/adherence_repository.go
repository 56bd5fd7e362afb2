package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/selune/lunora/pkg/entity"
)

type AdherenceRepository struct {
	conn PgConnection
}

func NewAdherenceRepo(cfg DBConfig) *AdherenceRepository {
	return &AdherenceRepository{
		conn: connectPool(cfg, "adherenceRepo"),
	}
}

func NewAdherenceRepoWithConn(conn PgConnection) *AdherenceRepository {
	mustPing(conn, "adherenceRepo")
	return &AdherenceRepository{
		conn: conn,
	}
}

// MarkTaken scans the trailing history and writes the derived log row in one
// transaction. The range read locks the scanned rows so a concurrent mark for
// the same user waits instead of deriving its streak from stale history.
func (ar *AdherenceRepository) MarkTaken(ctx context.Context, log *entity.AdherenceLog, scanFrom time.Time, streakOf func(history []entity.AdherenceLog) int) (int, error) {
	if log == nil {
		return 0, errors.New("adherence log is nil")
	}
	tx, err := ar.conn.Begin(ctx)
	if err != nil {
		return 0, errors.New("starting adherence mark tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT user_id, log_date, taken, streak_count, logged_at FROM adherence_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3 ORDER BY log_date ASC FOR UPDATE;`,
		log.UserID, scanFrom, log.Date.AddDate(0, 0, -1))
	if err != nil {
		return 0, errors.New("getting adherence range error: " + err.Error())
	}
	history := make([]entity.AdherenceLog, 0)
	for rows.Next() {
		past := entity.AdherenceLog{}
		err = rows.Scan(&past.UserID, &past.Date, &past.Taken, &past.StreakCount, &past.LoggedAt)
		if err != nil {
			rows.Close()
			return 0, errors.New("adherence row parsing error: " + err.Error())
		}
		history = append(history, past)
	}
	rows.Close()
	if rows.Err() != nil {
		return 0, errors.New("unexpected adherence rows error: " + rows.Err().Error())
	}

	log.StreakCount = streakOf(history)
	_, err = tx.Exec(ctx, `INSERT INTO adherence_logs (user_id, log_date, taken, streak_count, logged_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, log_date) DO UPDATE SET taken = $3, streak_count = $4, logged_at = $5;`,
		log.UserID,
		log.Date,
		log.Taken,
		log.StreakCount,
		log.LoggedAt,
	)
	if err != nil {
		return 0, errors.New("upserting adherence log error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, errors.New("committing adherence mark error: " + err.Error())
	}
	return log.StreakCount, nil
}

// Upsert is last-write-wins on (user_id, log_date).
func (ar *AdherenceRepository) Upsert(ctx context.Context, log *entity.AdherenceLog) error {
	if log == nil {
		return errors.New("adherence log is nil")
	}
	_, err := ar.conn.Exec(ctx, `INSERT INTO adherence_logs (user_id, log_date, taken, streak_count, logged_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, log_date) DO UPDATE SET taken = $3, streak_count = $4, logged_at = $5;`,
		log.UserID,
		log.Date,
		log.Taken,
		log.StreakCount,
		log.LoggedAt,
	)
	if err != nil {
		return errors.New("upserting adherence log error: " + err.Error())
	}
	return nil
}

func (ar *AdherenceRepository) GetRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.AdherenceLog, error) {
	rows, err := ar.conn.Query(ctx, `SELECT user_id, log_date, taken, streak_count, logged_at FROM adherence_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3 ORDER BY log_date ASC;`, uid, from, to)
	if err != nil {
		return nil, errors.New("getting adherence range error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.AdherenceLog, 0)
	for rows.Next() {
		log := entity.AdherenceLog{}
		err = rows.Scan(&log.UserID, &log.Date, &log.Taken, &log.StreakCount, &log.LoggedAt)
		if err != nil {
			return nil, errors.New("adherence row parsing error: " + err.Error())
		}
		result = append(result, log)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected adherence rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (ar *AdherenceRepository) CountTaken(ctx context.Context, uid uuid.UUID) (int, error) {
	row := ar.conn.QueryRow(ctx, `SELECT COUNT(*) FROM adherence_logs WHERE user_id = $1 AND taken = TRUE;`, uid)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("error counting taken days: " + err.Error())
	}
	return count, nil
}
