package application

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/forumhq/forumhq/internal/domain/entity"
	repo "github.com/forumhq/forumhq/internal/domain/repository"
)

// DefaultHotLocationsLimit caps the hot-locations report.
const DefaultHotLocationsLimit = 13

// LocationService computes and serves the location-popularity report.
// Rebuild cadence is up to the surrounding scheduler (cmd/locations_job);
// reads always come from the materialized table.
type LocationService struct {
	Locations repo.LocationRepository
	Logger    *logrus.Logger
}

func NewLocationService(locations repo.LocationRepository, logger *logrus.Logger) *LocationService {
	return &LocationService{Locations: locations, Logger: logger}
}

// Rebuild re-runs the group-and-count pass over all users and replaces
// the materialized rows.
func (s *LocationService) Rebuild() error {
	if err := s.Locations.Rebuild(); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("location popularity rebuilt")
	}
	return nil
}

// TopLocations returns the most popular non-empty locations, count
// descending. Tie order between equal counts is unconstrained.
func (s *LocationService) TopLocations(limit int) ([]entity.LocationRank, error) {
	if limit <= 0 {
		limit = DefaultHotLocationsLimit
	}
	all, err := s.Locations.All()
	if err != nil {
		return nil, err
	}

	ranks := make([]entity.LocationRank, 0, len(all))
	for _, r := range all {
		if r.Location == "" {
			continue
		}
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		return ranks[i].UserCount > ranks[j].UserCount
	})
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks, nil
}
