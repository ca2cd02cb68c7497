package repository

import "github.com/forumhq/forumhq/internal/domain/entity"

// LocationRepository owns the materialized location-popularity table.
// Rebuild runs the group-and-count pass over all users and replaces the
// table contents; All returns the raw rows for the service to rank.
type LocationRepository interface {
	Rebuild() error
	All() ([]entity.LocationRank, error)
}
