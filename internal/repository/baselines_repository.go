package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/pkg/entity"
)

type BaselinesRepository struct {
	conn PgConnection
}

func NewBaselinesRepo(cfg DBConfig) *BaselinesRepository {
	return &BaselinesRepository{
		conn: connectPool(cfg, "baselinesRepo"),
	}
}

func NewBaselinesRepoWithConn(conn PgConnection) *BaselinesRepository {
	mustPing(conn, "baselinesRepo")
	return &BaselinesRepository{
		conn: conn,
	}
}

func (br *BaselinesRepository) Upsert(ctx context.Context, baseline *entity.CycleBaseline) error {
	if baseline == nil {
		return errors.New("baseline is nil")
	}
	_, err := br.conn.Exec(ctx, `INSERT INTO cycle_baselines (user_id, cycle_length, luteal_length, last_period_start)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET cycle_length = $2, luteal_length = $3, last_period_start = $4, updated_at = NOW();`,
		baseline.UserID,
		baseline.CycleLength,
		baseline.LutealLength,
		baseline.LastPeriodStart,
	)
	if err != nil {
		return errors.New("upserting baseline db error: " + err.Error())
	}
	return nil
}

func (br *BaselinesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) (*entity.CycleBaseline, error) {
	var baseline entity.CycleBaseline
	baseline.UserID = uid
	row := br.conn.QueryRow(ctx, `SELECT cycle_length, luteal_length, last_period_start, updated_at FROM cycle_baselines WHERE user_id = $1;`, uid)
	if err := row.Scan(&baseline.CycleLength, &baseline.LutealLength, &baseline.LastPeriodStart, &baseline.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrBaselineNotFound
		}
		return nil, errors.New("getting baseline error: " + err.Error())
	}
	return &baseline, nil
}
