package repository

import "github.com/forumhq/forumhq/internal/domain/entity"

// FollowRepository stores the symmetric user follow relation and the
// user-to-node follow relation. A single edge (follower, followed) is read
// from both directions, so an edge added via Follow is immediately visible
// through both Following(follower) and Followers(followed).
type FollowRepository interface {
	Follow(followerID, followedID string) error
	Unfollow(followerID, followedID string) error
	IsFollowing(followerID, followedID string) (bool, error)
	Following(userID string) ([]entity.User, error)
	Followers(userID string) ([]entity.User, error)

	FollowNode(userID string, nodeID int64) error
	UnfollowNode(userID string, nodeID int64) error
	FollowingNodes(userID string) ([]entity.Node, error)
}
