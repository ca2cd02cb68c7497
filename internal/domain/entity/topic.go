package entity

import "time"

// Topic is the minimal topic shape the user aggregate needs: read-state
// tracking keys off LastReplyID, cascade policy keys off UserID.
type Topic struct {
	ID           int64
	UserID       string
	NodeID       int64
	Title        string
	LastReplyID  *int64
	RepliesCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LastReplyOrSentinel returns LastReplyID, or -1 when the topic has no
// replies yet. The sentinel keeps the read-state cache value well defined.
func (t *Topic) LastReplyOrSentinel() int64 {
	if t.LastReplyID == nil {
		return -1
	}
	return *t.LastReplyID
}
