package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) ListByUser(userID string) ([]entity.Notification, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, kind, read, payload, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ns []entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Read, &n.Payload, &n.CreatedAt); err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, rows.Err()
}

// MarkRead flips only rows that are still unread; already-read ids are
// skipped rather than rewritten.
func (r *NotificationRepository) MarkRead(userID string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET read = true
		WHERE user_id = $1 AND id = ANY($2) AND read = false
	`, userID, ids)
	return err
}

func (r *NotificationRepository) DeleteByUser(userID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	return err
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
