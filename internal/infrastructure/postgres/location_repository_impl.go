package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/internal/domain/repository"
)

// LocationRepository materializes the location-popularity aggregation into
// the user_locations table so reads never touch the users table.
type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

// Rebuild replaces the materialized rows in one transaction: a snapshot
// group-by over users with a non-empty location, counting users and
// collecting a login sample per location.
func (r *LocationRepository) Rebuild() error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE user_locations`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_locations (location, user_count, sample_logins)
		SELECT location, count(*), array_agg(login)
		FROM users
		WHERE location IS NOT NULL AND location <> ''
		GROUP BY location
	`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *LocationRepository) All() ([]entity.LocationRank, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT location, user_count, sample_logins FROM user_locations
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []entity.LocationRank
	for rows.Next() {
		var lr entity.LocationRank
		if err := rows.Scan(&lr.Location, &lr.UserCount, &lr.SampleLogins); err != nil {
			return nil, err
		}
		ranks = append(ranks, lr)
	}
	return ranks, rows.Err()
}

var _ repository.LocationRepository = (*LocationRepository)(nil)
