package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/selune/lunora/pkg/entity"
)

type ForecastsRepository struct {
	conn PgConnection
}

func NewForecastsRepo(cfg DBConfig) *ForecastsRepository {
	return &ForecastsRepository{
		conn: connectPool(cfg, "forecastsRepo"),
	}
}

func NewForecastsRepoWithConn(conn PgConnection) *ForecastsRepository {
	mustPing(conn, "forecastsRepo")
	return &ForecastsRepository{
		conn: conn,
	}
}

// ReplaceForUser swaps the whole forecast set in one transaction so readers
// never observe a half-deleted window.
func (fr *ForecastsRepository) ReplaceForUser(ctx context.Context, uid uuid.UUID, forecasts []entity.PhaseForecast) error {
	tx, err := fr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting forecast replace tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM phase_forecasts WHERE user_id = $1;`, uid)
	if err != nil {
		return errors.New("deleting stale forecasts error: " + err.Error())
	}
	for _, forecast := range forecasts {
		_, err = tx.Exec(ctx, `INSERT INTO phase_forecasts (user_id, forecast_date, phase, confidence) VALUES ($1, $2, $3, $4);`,
			uid,
			forecast.Date,
			forecast.Phase,
			forecast.Confidence,
		)
		if err != nil {
			return errors.New("inserting forecast row error: " + err.Error())
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing forecast replace error: " + err.Error())
	}
	return nil
}

func (fr *ForecastsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.PhaseForecast, error) {
	rows, err := fr.conn.Query(ctx, `SELECT user_id, forecast_date, phase, confidence FROM phase_forecasts
		WHERE user_id = $1 ORDER BY forecast_date ASC;`, uid)
	if err != nil {
		return nil, errors.New("getting forecasts error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.PhaseForecast, 0, 90)
	for rows.Next() {
		forecast := entity.PhaseForecast{}
		err = rows.Scan(&forecast.UserID, &forecast.Date, &forecast.Phase, &forecast.Confidence)
		if err != nil {
			return nil, errors.New("forecast row parsing error: " + err.Error())
		}
		result = append(result, forecast)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected forecast rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (fr *ForecastsRepository) GetByUserAndDate(ctx context.Context, uid uuid.UUID, date time.Time) (*entity.PhaseForecast, error) {
	var forecast entity.PhaseForecast
	row := fr.conn.QueryRow(ctx, `SELECT user_id, forecast_date, phase, confidence FROM phase_forecasts
		WHERE user_id = $1 AND forecast_date = $2;`, uid, date)
	if err := row.Scan(&forecast.UserID, &forecast.Date, &forecast.Phase, &forecast.Confidence); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.New("getting forecast for date error: " + err.Error())
	}
	return &forecast, nil
}
