package entity

// LocationRank is one row of the materialized location-popularity
// aggregation. SampleLogins is an unordered sample of contributing users,
// not a complete list.
type LocationRank struct {
	Location     string
	UserCount    int
	SampleLogins []string
}
