package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/internal/domain/repository"
)

type TopicRepository struct {
	pool *pgxpool.Pool
}

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

func (r *TopicRepository) GetByID(id int64) (*entity.Topic, error) {
	ctx := context.Background()
	t := &entity.Topic{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, node_id, title, last_reply_id, replies_count, created_at, updated_at
		FROM topics
		WHERE id = $1
	`, id)
	if err := row.Scan(&t.ID, &t.UserID, &t.NodeID, &t.Title, &t.LastReplyID,
		&t.RepliesCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TopicRepository) DeleteByUser(userID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM topics WHERE user_id = $1`, userID)
	return err
}

func (r *TopicRepository) DeleteRepliesByUser(userID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM replies WHERE user_id = $1`, userID)
	return err
}

var _ repository.TopicRepository = (*TopicRepository)(nil)
