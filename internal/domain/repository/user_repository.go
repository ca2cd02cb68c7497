package repository

import "github.com/forumhq/forumhq/internal/domain/entity"

// UserRepository defines the interface for user-related database operations.
// Lookups by login and email are case-insensitive exact matches. Update does
// not re-run any format or uniqueness checks; those live in the application
// layer so the soft-delete sentinel write can skip them.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByLogin(login string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(u *entity.User) error
	ListHot(limit int) ([]entity.User, error)

	AddAuthorization(userID, provider, uid string) (*entity.Authorization, error)
	ListAuthorizations(userID string) ([]entity.Authorization, error)
}
