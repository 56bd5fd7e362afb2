package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/pkg/entity"
)

type AchievementsRepository struct {
	conn PgConnection
}

func NewAchievementsRepo(cfg DBConfig) *AchievementsRepository {
	return &AchievementsRepository{
		conn: connectPool(cfg, "achievementsRepo"),
	}
}

func NewAchievementsRepoWithConn(conn PgConnection) *AchievementsRepository {
	mustPing(conn, "achievementsRepo")
	return &AchievementsRepository{
		conn: conn,
	}
}

// Unlock relies on the (user_id, achievement_type) unique constraint instead
// of a check-then-insert, so concurrent unlocks of the same type collapse
// into one row.
func (ar *AchievementsRepository) Unlock(ctx context.Context, achievement *entity.Achievement) error {
	if achievement == nil {
		return errors.New("achievement is nil")
	}
	_, err := ar.conn.Exec(ctx, `INSERT INTO achievements (user_id, achievement_type, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_type) DO NOTHING;`,
		achievement.UserID,
		achievement.Type,
		achievement.UnlockedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("unlocking achievement db error: " + err.Error())
	}
	return nil
}

func (ar *AchievementsRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]entity.Achievement, error) {
	rows, err := ar.conn.Query(ctx, `SELECT user_id, achievement_type, unlocked_at FROM achievements
		WHERE user_id = $1 ORDER BY unlocked_at ASC;`, uid)
	if err != nil {
		return nil, errors.New("getting achievements error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Achievement, 0)
	for rows.Next() {
		achievement := entity.Achievement{}
		err = rows.Scan(&achievement.UserID, &achievement.Type, &achievement.UnlockedAt)
		if err != nil {
			return nil, errors.New("achievement row parsing error: " + err.Error())
		}
		result = append(result, achievement)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected achievement rows error: " + rows.Err().Error())
	}
	return result, nil
}
