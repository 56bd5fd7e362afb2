package repository

import (
	"context"
	"errors"
	"time"

	"github.com/selune/lunora/pkg/entity"
)

type RemindersRepository struct {
	conn PgConnection
}

func NewRemindersRepo(cfg DBConfig) *RemindersRepository {
	return &RemindersRepository{
		conn: connectPool(cfg, "remindersRepo"),
	}
}

func NewRemindersRepoWithConn(conn PgConnection) *RemindersRepository {
	mustPing(conn, "remindersRepo")
	return &RemindersRepository{
		conn: conn,
	}
}

func (rr *RemindersRepository) Upsert(ctx context.Context, setting *entity.ReminderSetting) error {
	if setting == nil {
		return errors.New("reminder setting is nil")
	}
	_, err := rr.conn.Exec(ctx, `INSERT INTO reminder_settings (user_id, enabled, remind_minute)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET enabled = $2, remind_minute = $3;`,
		setting.UserID,
		setting.Enabled,
		setting.RemindMinute,
	)
	if err != nil {
		return errors.New("upserting reminder setting error: " + err.Error())
	}
	return nil
}

// ListDue filters out users who already logged a taken dose for the day, so
// the cron caller only notifies the ones still pending.
func (rr *RemindersRepository) ListDue(ctx context.Context, day time.Time, minuteOfDay int) ([]entity.ReminderSetting, error) {
	rows, err := rr.conn.Query(ctx, `SELECT rs.user_id, rs.enabled, rs.remind_minute FROM reminder_settings rs
		WHERE rs.enabled = TRUE AND rs.remind_minute <= $2
		AND NOT EXISTS (SELECT 1 FROM adherence_logs al WHERE al.user_id = rs.user_id AND al.log_date = $1 AND al.taken = TRUE);`,
		day, minuteOfDay)
	if err != nil {
		return nil, errors.New("listing due reminders error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.ReminderSetting, 0)
	for rows.Next() {
		setting := entity.ReminderSetting{}
		err = rows.Scan(&setting.UserID, &setting.Enabled, &setting.RemindMinute)
		if err != nil {
			return nil, errors.New("reminder row parsing error: " + err.Error())
		}
		result = append(result, setting)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected reminder rows error: " + rows.Err().Error())
	}
	return result, nil
}
