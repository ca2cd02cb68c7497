package entity

import "testing"

func TestLastReplyOrSentinel(t *testing.T) {
	empty := &Topic{}
	if got := empty.LastReplyOrSentinel(); got != -1 {
		t.Fatalf("topic without replies = %d, want -1", got)
	}
	id := int64(42)
	replied := &Topic{LastReplyID: &id}
	if got := replied.LastReplyOrSentinel(); got != 42 {
		t.Fatalf("topic with reply = %d, want 42", got)
	}
}
