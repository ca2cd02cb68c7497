package repository

import "github.com/forumhq/forumhq/internal/domain/entity"

// NotificationRepository covers the user aggregate's bulk notification
// operations: mark-read on view and bulk delete on soft delete.
type NotificationRepository interface {
	ListByUser(userID string) ([]entity.Notification, error)
	MarkRead(userID string, ids []int64) error
	DeleteByUser(userID string) error
}
