package entity

import "time"

// Notification is a per-user event record. The aggregate only marks them
// read in bulk and deletes them when the user is soft deleted.
type Notification struct {
	ID        int64
	UserID    string
	Kind      string
	Read      bool
	Payload   []byte
	CreatedAt time.Time
}
