package application

import (
	"context"
	"errors"
	"testing"

	"github.com/forumhq/forumhq/internal/domain/entity"
)

func newEngagementService(topics *fakeTopicRepo, cache *fakeCache) *EngagementService {
	return &EngagementService{
		Topics:        topics,
		Likes:         newFakeLikeRepo(),
		Notifications: newFakeNotificationRepo(),
		Cache:         cache,
	}
}

func TestTopicReadState(t *testing.T) {
	topics := newFakeTopicRepo()
	cache := newFakeCache()
	svc := newEngagementService(topics, cache)
	ctx := context.Background()

	last := int64(7)
	topics.topics[1] = &entity.Topic{ID: 1, LastReplyID: &last}

	read, err := svc.IsTopicRead(ctx, "u-1", 1)
	if err != nil || read {
		t.Fatalf("unvisited topic: read=%v err=%v", read, err)
	}

	if err := svc.MarkTopicRead(ctx, "u-1", 1); err != nil {
		t.Fatalf("mark: %v", err)
	}
	read, err = svc.IsTopicRead(ctx, "u-1", 1)
	if err != nil || !read {
		t.Fatalf("after mark: read=%v err=%v", read, err)
	}

	// A new reply flips the topic back to unread without any invalidation.
	newer := int64(9)
	topics.topics[1].LastReplyID = &newer
	read, err = svc.IsTopicRead(ctx, "u-1", 1)
	if err != nil || read {
		t.Fatalf("after new reply: read=%v err=%v", read, err)
	}

	// Eviction reads the same as never-written.
	if err := svc.MarkTopicRead(ctx, "u-1", 1); err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	_ = cache.Del(ctx, readStateKey("u-1", 1))
	read, err = svc.IsTopicRead(ctx, "u-1", 1)
	if err != nil || read {
		t.Fatalf("after eviction: read=%v err=%v", read, err)
	}
}

func TestTopicReadStateNoReplies(t *testing.T) {
	topics := newFakeTopicRepo()
	cache := newFakeCache()
	svc := newEngagementService(topics, cache)
	ctx := context.Background()

	topics.topics[2] = &entity.Topic{ID: 2} // no replies yet

	if err := svc.MarkTopicRead(ctx, "u-1", 2); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if got := cache.entries[readStateKey("u-1", 2)].value; got != "-1" {
		t.Fatalf("stored marker = %q, want -1", got)
	}
	read, err := svc.IsTopicRead(ctx, "u-1", 2)
	if err != nil || !read {
		t.Fatalf("topic without replies after mark: read=%v err=%v", read, err)
	}
}

func TestTopicReadStateUnknownTopic(t *testing.T) {
	svc := newEngagementService(newFakeTopicRepo(), newFakeCache())
	ctx := context.Background()

	if err := svc.MarkTopicRead(ctx, "u-1", 99); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("mark unknown topic: %v", err)
	}
	if _, err := svc.IsTopicRead(ctx, "u-1", 99); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("read unknown topic: %v", err)
	}
}

func TestTopicReadStateUnparseableMarker(t *testing.T) {
	topics := newFakeTopicRepo()
	cache := newFakeCache()
	svc := newEngagementService(topics, cache)
	ctx := context.Background()

	topics.topics[3] = &entity.Topic{ID: 3}
	cache.entries[readStateKey("u-1", 3)] = cacheEntry{value: "garbage"}

	read, err := svc.IsTopicRead(ctx, "u-1", 3)
	if err != nil || read {
		t.Fatalf("garbage marker must read as unread: read=%v err=%v", read, err)
	}
}

func TestLikeIdempotence(t *testing.T) {
	svc := newEngagementService(newFakeTopicRepo(), newFakeCache())

	l1, err := svc.Like(entity.LikeableTopic, 10, "u-1")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	l2, err := svc.Like(entity.LikeableTopic, 10, "u-1")
	if err != nil {
		t.Fatalf("second like: %v", err)
	}
	if l1.ID != l2.ID {
		t.Fatalf("repeated like created a new row: %d vs %d", l1.ID, l2.ID)
	}

	got, err := svc.GetLike(entity.LikeableTopic, 10, "u-1")
	if err != nil || got == nil {
		t.Fatalf("get like: %v %v", got, err)
	}

	if err := svc.Unlike(entity.LikeableTopic, 10, "u-1"); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	got, err = svc.GetLike(entity.LikeableTopic, 10, "u-1")
	if err != nil || got != nil {
		t.Fatalf("like still present after unlike: %v %v", got, err)
	}
}

func TestLikeSeparateTargets(t *testing.T) {
	svc := newEngagementService(newFakeTopicRepo(), newFakeCache())

	a, _ := svc.Like(entity.LikeableTopic, 10, "u-1")
	b, _ := svc.Like(entity.LikeableReply, 10, "u-1")
	if a.ID == b.ID {
		t.Fatalf("topic and reply likes on the same id must be distinct rows")
	}
}

func TestReadNotifications(t *testing.T) {
	notifications := newFakeNotificationRepo()
	svc := newEngagementService(newFakeTopicRepo(), newFakeCache())
	svc.Notifications = notifications

	notifications.notifications["u-1"] = []entity.Notification{
		{ID: 1, UserID: "u-1"},
		{ID: 2, UserID: "u-1"},
		{ID: 3, UserID: "u-1"},
	}

	if err := svc.ReadNotifications("u-1", []int64{1, 3}); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, err := svc.ListNotifications("u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	readStates := map[int64]bool{}
	for _, n := range list {
		readStates[n.ID] = n.Read
	}
	if !readStates[1] || readStates[2] || !readStates[3] {
		t.Fatalf("wrong read flags: %v", readStates)
	}
}
