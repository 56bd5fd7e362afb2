package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/selune/lunora/internal/repository"
	"github.com/selune/lunora/pkg/entity"
	"github.com/stretchr/testify/assert"
)

var (
	userID = uuid.New()
)

func TestMarkTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAdherenceRepoWithConn(mock)
	ctx := context.Background()
	logDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	scanFrom := logDate.AddDate(0, 0, -365)
	loggedAt := time.Date(2024, 1, 5, 7, 30, 0, 0, time.UTC)
	selectQuery := regexp.QuoteMeta(`SELECT user_id, log_date, taken, streak_count, logged_at FROM adherence_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3 ORDER BY log_date ASC FOR UPDATE;`)
	insertQuery := regexp.QuoteMeta(`INSERT INTO adherence_logs (user_id, log_date, taken, streak_count, logged_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, log_date) DO UPDATE SET taken = $3, streak_count = $4, logged_at = $5;`)
	streakOf := func(history []entity.AdherenceLog) int {
		return len(history) + 1
	}
	t.Run("scan and write share one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).
			WithArgs(userID, scanFrom, logDate.AddDate(0, 0, -1)).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "log_date", "taken", "streak_count", "logged_at"}).
				AddRow(userID, logDate.AddDate(0, 0, -2), true, 1, loggedAt.AddDate(0, 0, -2)).
				AddRow(userID, logDate.AddDate(0, 0, -1), true, 2, loggedAt.AddDate(0, 0, -1)))
		mock.ExpectExec(insertQuery).
			WithArgs(userID, logDate, true, 3, loggedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		streak, err := repo.MarkTaken(ctx, &entity.AdherenceLog{
			UserID:   userID,
			Date:     logDate,
			Taken:    true,
			LoggedAt: loggedAt,
		}, scanFrom, streakOf)
		assert.NoError(t, err)
		assert.Equal(t, 3, streak)
	})
	t.Run("write failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).
			WithArgs(userID, scanFrom, logDate.AddDate(0, 0, -1)).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "log_date", "taken", "streak_count", "logged_at"}))
		mock.ExpectExec(insertQuery).
			WithArgs(userID, logDate, true, 1, loggedAt).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()
		_, err := repo.MarkTaken(ctx, &entity.AdherenceLog{
			UserID:   userID,
			Date:     logDate,
			Taken:    true,
			LoggedAt: loggedAt,
		}, scanFrom, streakOf)
		assert.Error(t, err)
	})
	t.Run("scan failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(selectQuery).
			WithArgs(userID, scanFrom, logDate.AddDate(0, 0, -1)).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()
		_, err := repo.MarkTaken(ctx, &entity.AdherenceLog{
			UserID:   userID,
			Date:     logDate,
			Taken:    true,
			LoggedAt: loggedAt,
		}, scanFrom, streakOf)
		assert.Error(t, err)
	})
	t.Run("nil log", func(t *testing.T) {
		_, err := repo.MarkTaken(ctx, nil, scanFrom, streakOf)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAdherenceLog(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAdherenceRepoWithConn(mock)
	ctx := context.Background()
	logDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	loggedAt := time.Date(2024, 1, 5, 7, 30, 0, 0, time.UTC)
	log := entity.AdherenceLog{
		UserID:      userID,
		Date:        logDate,
		Taken:       true,
		StreakCount: 5,
		LoggedAt:    loggedAt,
	}
	query := regexp.QuoteMeta(`INSERT INTO adherence_logs (user_id, log_date, taken, streak_count, logged_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, log_date) DO UPDATE SET taken = $3, streak_count = $4, logged_at = $5;`)
	t.Run("successfully upserted", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(log.UserID, log.Date, log.Taken, log.StreakCount, log.LoggedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		err := repo.Upsert(ctx, &log)
		assert.NoError(t, err)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(log.UserID, log.Date, log.Taken, log.StreakCount, log.LoggedAt).
			WillReturnError(errors.New("db error"))
		err := repo.Upsert(ctx, &log)
		assert.Error(t, err)
	})
	t.Run("nil log", func(t *testing.T) {
		err := repo.Upsert(ctx, nil)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAdherenceRange(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAdherenceRepoWithConn(mock)
	ctx := context.Background()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(`SELECT user_id, log_date, taken, streak_count, logged_at FROM adherence_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3 ORDER BY log_date ASC;`)
	t.Run("successfully listed", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, from, to).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "log_date", "taken", "streak_count", "logged_at"}).
				AddRow(userID, from, true, 1, from.Add(7*time.Hour)).
				AddRow(userID, from.AddDate(0, 0, 1), false, 0, from.Add(31*time.Hour)))
		logs, err := repo.GetRange(ctx, userID, from, to)
		assert.NoError(t, err)
		assert.Len(t, logs, 2)
		assert.True(t, logs[0].Taken)
		assert.Equal(t, 0, logs[1].StreakCount)
	})
	t.Run("empty range", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, from, to).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "log_date", "taken", "streak_count", "logged_at"}))
		logs, err := repo.GetRange(ctx, userID, from, to)
		assert.NoError(t, err)
		assert.Empty(t, logs)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, from, to).
			WillReturnError(errors.New("db error"))
		_, err := repo.GetRange(ctx, userID, from, to)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewAdherenceRepoWithConn(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM adherence_logs WHERE user_id = $1 AND taken = TRUE;`)
	t.Run("successfully counted", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))
		count, err := repo.CountTaken(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 12, count)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID).
			WillReturnError(errors.New("db error"))
		_, err := repo.CountTaken(ctx, userID)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
