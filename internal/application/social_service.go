package application

import (
	"github.com/forumhq/forumhq/internal/domain/entity"
	repo "github.com/forumhq/forumhq/internal/domain/repository"
)

// SocialService owns the follow relations. A follow edge written once is
// visible from both sides: Following(a) and Followers(b) read the same row.
// Self-follows are not rejected; the original never guarded against them.
type SocialService struct {
	Users   repo.UserRepository
	Follows repo.FollowRepository
}

func NewSocialService(users repo.UserRepository, follows repo.FollowRepository) *SocialService {
	return &SocialService{Users: users, Follows: follows}
}

func (s *SocialService) Follow(followerID, followedID string) error {
	if _, err := s.Users.GetByID(followedID); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return s.Follows.Follow(followerID, followedID)
}

func (s *SocialService) Unfollow(followerID, followedID string) error {
	return s.Follows.Unfollow(followerID, followedID)
}

func (s *SocialService) IsFollowing(followerID, followedID string) (bool, error) {
	return s.Follows.IsFollowing(followerID, followedID)
}

func (s *SocialService) Following(userID string) ([]entity.User, error) {
	return s.Follows.Following(userID)
}

func (s *SocialService) Followers(userID string) ([]entity.User, error) {
	return s.Follows.Followers(userID)
}

func (s *SocialService) FollowNode(userID string, nodeID int64) error {
	return s.Follows.FollowNode(userID, nodeID)
}

func (s *SocialService) UnfollowNode(userID string, nodeID int64) error {
	return s.Follows.UnfollowNode(userID, nodeID)
}

func (s *SocialService) FollowingNodes(userID string) ([]entity.Node, error) {
	return s.Follows.FollowingNodes(userID)
}
