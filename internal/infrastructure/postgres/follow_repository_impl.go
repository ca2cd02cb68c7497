package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/internal/domain/repository"
)

// FollowRepository keeps user follows in a single edge table read from both
// directions, which makes the follower/following views of one edge
// consistent without a second write.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Follow(followerID, followedID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`, followerID, followedID)
	return err
}

func (r *FollowRepository) Unfollow(followerID, followedID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_follows WHERE follower_id = $1 AND followed_id = $2
	`, followerID, followedID)
	return err
}

func (r *FollowRepository) IsFollowing(followerID, followedID string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_follows WHERE follower_id = $1 AND followed_id = $2
		)
	`, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) Following(userID string) ([]entity.User, error) {
	return r.listEdges(`
		SELECT `+userColumns+` FROM users u
		JOIN user_follows f ON f.followed_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *FollowRepository) Followers(userID string) ([]entity.User, error) {
	return r.listEdges(`
		SELECT `+userColumns+` FROM users u
		JOIN user_follows f ON f.follower_id = u.id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *FollowRepository) listEdges(query, userID string) ([]entity.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *FollowRepository) FollowNode(userID string, nodeID int64) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO node_follows (user_id, node_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, node_id) DO NOTHING
	`, userID, nodeID)
	return err
}

func (r *FollowRepository) UnfollowNode(userID string, nodeID int64) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		DELETE FROM node_follows WHERE user_id = $1 AND node_id = $2
	`, userID, nodeID)
	return err
}

func (r *FollowRepository) FollowingNodes(userID string) ([]entity.Node, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.name, n.summary, n.created_at, n.updated_at
		FROM nodes n
		JOIN node_follows f ON f.node_id = n.id
		WHERE f.user_id = $1
		ORDER BY n.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []entity.Node
	for rows.Next() {
		var n entity.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.Summary, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
