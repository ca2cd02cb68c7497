package entity

import "time"

// Node is a topic category users can follow.
type Node struct {
	ID        int64
	Name      string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
