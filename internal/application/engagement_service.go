package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/forumhq/forumhq/internal/domain/entity"
	repo "github.com/forumhq/forumhq/internal/domain/repository"
)

// EngagementService owns topic read-state, likes and notification bulk ops.
//
// Read-state keys store the topic's last reply id (or the -1 sentinel when
// there are none), so cache eviction is always safe: a missing key reads as
// unread and a new reply changes the comparison target without any
// invalidation call.
type EngagementService struct {
	Topics        repo.TopicRepository
	Likes         repo.LikeRepository
	Notifications repo.NotificationRepository
	Cache         Cache
	Logger        *logrus.Logger
}

func NewEngagementService(topics repo.TopicRepository, likes repo.LikeRepository,
	notifications repo.NotificationRepository, cache Cache, logger *logrus.Logger) *EngagementService {
	return &EngagementService{
		Topics:        topics,
		Likes:         likes,
		Notifications: notifications,
		Cache:         cache,
		Logger:        logger,
	}
}

func readStateKey(userID string, topicID int64) string {
	return fmt.Sprintf("user:%s:topic_read:%d", userID, topicID)
}

// MarkTopicRead records the topic's current last reply as read for the user.
func (s *EngagementService) MarkTopicRead(ctx context.Context, userID string, topicID int64) error {
	t, err := s.Topics.GetByID(topicID)
	if err != nil {
		if isNotFound(err) {
			return ErrTopicNotFound
		}
		return err
	}
	val := strconv.FormatInt(t.LastReplyOrSentinel(), 10)
	return s.Cache.Set(ctx, readStateKey(userID, topicID), val, 0)
}

// IsTopicRead reports whether the user has seen the topic's latest reply.
// An evicted or never-written key reads as unread.
func (s *EngagementService) IsTopicRead(ctx context.Context, userID string, topicID int64) (bool, error) {
	t, err := s.Topics.GetByID(topicID)
	if err != nil {
		if isNotFound(err) {
			return false, ErrTopicNotFound
		}
		return false, err
	}
	val, ok, err := s.Cache.Get(ctx, readStateKey(userID, topicID))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	seen, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Unparseable marker is treated like an evicted one.
		return false, nil
	}
	return seen == t.LastReplyOrSentinel(), nil
}

// Like favorites a target. Liking twice yields the same single record.
func (s *EngagementService) Like(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error) {
	return s.Likes.Upsert(t, likeableID, userID)
}

// Unlike removes the favorite, including any duplicate rows.
func (s *EngagementService) Unlike(t entity.LikeableType, likeableID int64, userID string) error {
	return s.Likes.Delete(t, likeableID, userID)
}

func (s *EngagementService) GetLike(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error) {
	l, err := s.Likes.Get(t, likeableID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

func (s *EngagementService) ListNotifications(userID string) ([]entity.Notification, error) {
	return s.Notifications.ListByUser(userID)
}

// ReadNotifications marks the given notifications read in one statement.
func (s *EngagementService) ReadNotifications(userID string, ids []int64) error {
	return s.Notifications.MarkRead(userID, ids)
}
