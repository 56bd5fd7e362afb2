package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	errorvalues "github.com/selune/lunora/internal/error_values"
	"github.com/selune/lunora/pkg/entity"
)

type ChallengesRepository struct {
	conn PgConnection
}

func NewChallengesRepo(cfg DBConfig) *ChallengesRepository {
	return &ChallengesRepository{
		conn: connectPool(cfg, "challengesRepo"),
	}
}

func NewChallengesRepoWithConn(conn PgConnection) *ChallengesRepository {
	mustPing(conn, "challengesRepo")
	return &ChallengesRepository{
		conn: conn,
	}
}

func (cr *ChallengesRepository) CreateIfAbsent(ctx context.Context, challenge *entity.Challenge) (bool, error) {
	if challenge == nil {
		return false, errors.New("challenge is nil")
	}
	var title, description *string
	if challenge.Custom != nil {
		title = &challenge.Custom.Title
		description = &challenge.Custom.Description
	}
	row := cr.conn.QueryRow(ctx, `INSERT INTO challenges (user_id, challenge_type, target, progress, status, emoji, title, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, challenge_type) DO NOTHING
		RETURNING id, created_at;`,
		challenge.UserID,
		challenge.Type,
		challenge.Target,
		challenge.Progress,
		challenge.Status,
		challenge.Emoji,
		title,
		description,
	)
	if err := row.Scan(&challenge.ID, &challenge.CreatedAt); err != nil {
		// No row back means the conflict branch fired
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return false, errorvalues.ErrUserNotFound
			}
		}
		return false, errors.New("creating challenge db error: " + err.Error())
	}
	return true, nil
}

func (cr *ChallengesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Challenge, error) {
	var challenge entity.Challenge
	challenge.ID = id
	var title, description *string
	row := cr.conn.QueryRow(ctx, `SELECT user_id, challenge_type, target, progress, status, emoji, title, description, completed_at, created_at
		FROM challenges WHERE id = $1;`, id)
	err := row.Scan(&challenge.UserID, &challenge.Type, &challenge.Target, &challenge.Progress, &challenge.Status,
		&challenge.Emoji, &title, &description, &challenge.CompletedAt, &challenge.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrChallengeNotFound
		}
		return nil, errors.New("getting challenge by id error: " + err.Error())
	}
	challenge.Custom = customMeta(title, description)
	return &challenge, nil
}

func (cr *ChallengesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Challenge, error) {
	rows, err := cr.conn.Query(ctx, `SELECT id, user_id, challenge_type, target, progress, status, emoji, title, description, completed_at, created_at
		FROM challenges WHERE user_id = $1 ORDER BY created_at ASC;`, uid)
	if err != nil {
		return nil, errors.New("getting challenges by uid error: " + err.Error())
	}
	defer rows.Close()
	challenges := make([]*entity.Challenge, 0)
	for rows.Next() {
		challenge := entity.Challenge{}
		var title, description *string
		err = rows.Scan(&challenge.ID, &challenge.UserID, &challenge.Type, &challenge.Target, &challenge.Progress,
			&challenge.Status, &challenge.Emoji, &title, &description, &challenge.CompletedAt, &challenge.CreatedAt)
		if err != nil {
			return nil, errors.New("challenge row parsing error: " + err.Error())
		}
		challenge.Custom = customMeta(title, description)
		challenges = append(challenges, &challenge)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected challenge rows error: " + rows.Err().Error())
	}
	return challenges, nil
}

func (cr *ChallengesRepository) SaveProgress(ctx context.Context, id uuid.UUID, progress int, status entity.ChallengeStatus, completedAt *time.Time) error {
	ct, err := cr.conn.Exec(ctx, `UPDATE challenges SET progress = $1, status = $2, completed_at = $3 WHERE id = $4;`,
		progress, status, completedAt, id,
	)
	if err != nil {
		return errors.New("error saving challenge progress: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrChallengeNotFound
	}
	return nil
}

func (cr *ChallengesRepository) UpdateCustom(ctx context.Context, challenge *entity.Challenge) error {
	if challenge == nil || challenge.Custom == nil {
		return errors.New("custom challenge is nil")
	}
	ct, err := cr.conn.Exec(ctx, `UPDATE challenges SET target = $1, progress = $2, title = $3, description = $4 WHERE id = $5;`,
		challenge.Target,
		challenge.Progress,
		challenge.Custom.Title,
		challenge.Custom.Description,
		challenge.ID,
	)
	if err != nil {
		return errors.New("error updating custom goal: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrChallengeNotFound
	}
	return nil
}

func (cr *ChallengesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := cr.conn.Exec(ctx, `DELETE FROM challenges WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting challenge: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrChallengeNotFound
	}
	return nil
}

func customMeta(title, description *string) *entity.CustomGoalMeta {
	if title == nil && description == nil {
		return nil
	}
	meta := entity.CustomGoalMeta{}
	if title != nil {
		meta.Title = *title
	}
	if description != nil {
		meta.Description = *description
	}
	return &meta
}
