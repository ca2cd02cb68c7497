package entity

import "time"

// LikeableType is the tagged discriminator for polymorphic like targets.
type LikeableType string

const (
	LikeableTopic LikeableType = "topic"
	LikeableReply LikeableType = "reply"
)

// Like marks a user's favorite, keyed by (type, id, user).
type Like struct {
	ID           int64
	LikeableType LikeableType
	LikeableID   int64
	UserID       string
	CreatedAt    time.Time
}
