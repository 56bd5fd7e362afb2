package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/pkg/entity"
)

type CycleEventsRepository struct {
	conn PgConnection
}

func NewCycleEventsRepo(cfg DBConfig) *CycleEventsRepository {
	return &CycleEventsRepository{
		conn: connectPool(cfg, "cycleEventsRepo"),
	}
}

func NewCycleEventsRepoWithConn(conn PgConnection) *CycleEventsRepository {
	mustPing(conn, "cycleEventsRepo")
	return &CycleEventsRepository{
		conn: conn,
	}
}

func (er *CycleEventsRepository) Create(ctx context.Context, event *entity.CycleEvent) error {
	if event == nil {
		return errors.New("event is nil")
	}
	_, err := er.conn.Exec(ctx, `INSERT INTO cycle_events (user_id, event_date, kind) VALUES ($1, $2, $3);`,
		event.UserID,
		event.Date,
		event.Kind,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrEventExists
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("creating event db error: " + err.Error())
	}
	return nil
}

func (er *CycleEventsRepository) GetLatestByKind(ctx context.Context, uid uuid.UUID, kind entity.EventKind) (*entity.CycleEvent, error) {
	var event entity.CycleEvent
	row := er.conn.QueryRow(ctx, `SELECT id, user_id, event_date, kind, created_at FROM cycle_events
		WHERE user_id = $1 AND kind = $2 ORDER BY event_date DESC LIMIT 1;`, uid, kind)
	if err := row.Scan(&event.ID, &event.UserID, &event.Date, &event.Kind, &event.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.New("getting latest event by kind error: " + err.Error())
	}
	return &event, nil
}

func (er *CycleEventsRepository) GetLatestCreated(ctx context.Context, uid uuid.UUID) (*entity.CycleEvent, error) {
	var event entity.CycleEvent
	row := er.conn.QueryRow(ctx, `SELECT id, user_id, event_date, kind, created_at FROM cycle_events
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1;`, uid)
	if err := row.Scan(&event.ID, &event.UserID, &event.Date, &event.Kind, &event.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.New("getting latest created event error: " + err.Error())
	}
	return &event, nil
}

func (er *CycleEventsRepository) Delete(ctx context.Context, id int) error {
	ct, err := er.conn.Exec(ctx, `DELETE FROM cycle_events WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting event error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEventNotFound
	}
	return nil
}
