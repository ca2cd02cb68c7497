package repository

import "github.com/forumhq/forumhq/internal/domain/entity"

// LikeRepository stores likes keyed by (likeable type, likeable id, user).
// Upsert returns the existing row when present, so repeated likes stay
// idempotent. Delete removes every matching row, which also cleans up any
// duplicates that predate the unique index.
type LikeRepository interface {
	Upsert(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error)
	Delete(t entity.LikeableType, likeableID int64, userID string) error
	Get(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error)
}
