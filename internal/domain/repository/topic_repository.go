package repository

import "github.com/forumhq/forumhq/internal/domain/entity"

// TopicRepository is the slice of the topic store the user aggregate needs:
// read-state lookups plus the cascade hooks run on soft delete.
type TopicRepository interface {
	GetByID(id int64) (*entity.Topic, error)
	DeleteByUser(userID string) error
	DeleteRepliesByUser(userID string) error
}
