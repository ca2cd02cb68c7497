package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/internal/domain/repository"
)

type LikeRepository struct {
	pool *pgxpool.Pool
}

func NewLikeRepository(pool *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{pool: pool}
}

// Upsert inserts the like if missing and returns the row either way.
// The DO UPDATE no-op makes RETURNING yield the existing row on conflict.
func (r *LikeRepository) Upsert(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error) {
	ctx := context.Background()
	l := &entity.Like{LikeableType: t, LikeableID: likeableID, UserID: userID}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO likes (likeable_type, likeable_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (likeable_type, likeable_id, user_id)
		DO UPDATE SET likeable_type = EXCLUDED.likeable_type
		RETURNING id, created_at
	`, t, likeableID, userID)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes every row matching the triple, not just one.
func (r *LikeRepository) Delete(t entity.LikeableType, likeableID int64, userID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		DELETE FROM likes
		WHERE likeable_type = $1 AND likeable_id = $2 AND user_id = $3
	`, t, likeableID, userID)
	return err
}

func (r *LikeRepository) Get(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error) {
	ctx := context.Background()
	l := &entity.Like{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, likeable_type, likeable_id, user_id, created_at
		FROM likes
		WHERE likeable_type = $1 AND likeable_id = $2 AND user_id = $3
	`, t, likeableID, userID)
	if err := row.Scan(&l.ID, &l.LikeableType, &l.LikeableID, &l.UserID, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
