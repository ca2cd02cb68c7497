package application

import (
	"testing"

	"github.com/forumhq/forumhq/internal/domain/entity"
)

func TestTopLocations(t *testing.T) {
	locations := &fakeLocationRepo{rows: []entity.LocationRank{
		{Location: "Berlin", UserCount: 3},
		{Location: "", UserCount: 50},
		{Location: "Tokyo", UserCount: 9},
		{Location: "Lagos", UserCount: 5},
	}}
	svc := NewLocationService(locations, nil)

	ranks, err := svc.TopLocations(0)
	if err != nil {
		t.Fatalf("top locations: %v", err)
	}
	if len(ranks) != 3 {
		t.Fatalf("got %d rows, want 3 (empty location dropped)", len(ranks))
	}
	if ranks[0].Location != "Tokyo" || ranks[1].Location != "Lagos" || ranks[2].Location != "Berlin" {
		t.Fatalf("wrong order: %v", ranks)
	}
}

func TestTopLocationsLimit(t *testing.T) {
	rows := make([]entity.LocationRank, 20)
	for i := range rows {
		rows[i] = entity.LocationRank{Location: string(rune('a' + i)), UserCount: i}
	}
	svc := NewLocationService(&fakeLocationRepo{rows: rows}, nil)

	ranks, err := svc.TopLocations(0)
	if err != nil {
		t.Fatalf("top locations: %v", err)
	}
	if len(ranks) != DefaultHotLocationsLimit {
		t.Fatalf("got %d rows, want default limit %d", len(ranks), DefaultHotLocationsLimit)
	}

	ranks, err = svc.TopLocations(2)
	if err != nil {
		t.Fatalf("top locations: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("got %d rows, want 2", len(ranks))
	}
	if ranks[0].UserCount < ranks[1].UserCount {
		t.Fatalf("not sorted descending: %v", ranks)
	}
}

func TestRebuildDelegates(t *testing.T) {
	locations := &fakeLocationRepo{}
	svc := NewLocationService(locations, nil)
	if err := svc.Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if locations.rebuilds != 1 {
		t.Fatalf("rebuilds = %d, want 1", locations.rebuilds)
	}
}
