package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/forumhq/forumhq/internal/domain/entity"
	repo "github.com/forumhq/forumhq/internal/domain/repository"
	"github.com/forumhq/forumhq/pkg/github"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	auths  map[string][]entity.Authorization
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}, auths: map[string][]entity.Authorization{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", r.nextID)
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByLogin(login string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Login, login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ListHot(limit int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, limit)
	for _, u := range r.users {
		if len(out) == limit {
			break
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) AddAuthorization(userID, provider, uid string) (*entity.Authorization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := entity.Authorization{
		ID:        int64(len(r.auths[userID]) + 1),
		UserID:    userID,
		Provider:  provider,
		UID:       uid,
		CreatedAt: time.Now(),
	}
	r.auths[userID] = append(r.auths[userID], a)
	return &a, nil
}

func (r *fakeUserRepo) ListAuthorizations(userID string) ([]entity.Authorization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Authorization(nil), r.auths[userID]...), nil
}

type fakeTopicRepo struct {
	topics          map[int64]*entity.Topic
	deletedUsers    []string
	deletedReplyFor []string
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: map[int64]*entity.Topic{}}
}

func (r *fakeTopicRepo) GetByID(id int64) (*entity.Topic, error) {
	t, ok := r.topics[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTopicRepo) DeleteByUser(userID string) error {
	r.deletedUsers = append(r.deletedUsers, userID)
	return nil
}

func (r *fakeTopicRepo) DeleteRepliesByUser(userID string) error {
	r.deletedReplyFor = append(r.deletedReplyFor, userID)
	return nil
}

type likeKey struct {
	t      entity.LikeableType
	id     int64
	userID string
}

type fakeLikeRepo struct {
	likes  map[likeKey]*entity.Like
	nextID int64
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[likeKey]*entity.Like{}}
}

func (r *fakeLikeRepo) Upsert(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error) {
	k := likeKey{t, likeableID, userID}
	if l, ok := r.likes[k]; ok {
		cp := *l
		return &cp, nil
	}
	r.nextID++
	l := &entity.Like{ID: r.nextID, LikeableType: t, LikeableID: likeableID, UserID: userID, CreatedAt: time.Now()}
	r.likes[k] = l
	cp := *l
	return &cp, nil
}

func (r *fakeLikeRepo) Delete(t entity.LikeableType, likeableID int64, userID string) error {
	delete(r.likes, likeKey{t, likeableID, userID})
	return nil
}

func (r *fakeLikeRepo) Get(t entity.LikeableType, likeableID int64, userID string) (*entity.Like, error) {
	l, ok := r.likes[likeKey{t, likeableID, userID}]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

type fakeNotificationRepo struct {
	notifications map[string][]entity.Notification
	deletedFor    []string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[string][]entity.Notification{}}
}

func (r *fakeNotificationRepo) ListByUser(userID string) ([]entity.Notification, error) {
	return append([]entity.Notification(nil), r.notifications[userID]...), nil
}

func (r *fakeNotificationRepo) MarkRead(userID string, ids []int64) error {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	list := r.notifications[userID]
	for i := range list {
		if want[list[i].ID] {
			list[i].Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByUser(userID string) error {
	delete(r.notifications, userID)
	r.deletedFor = append(r.deletedFor, userID)
	return nil
}

type fakeLocationRepo struct {
	rows     []entity.LocationRank
	rebuilds int
}

func (r *fakeLocationRepo) Rebuild() error {
	r.rebuilds++
	return nil
}

func (r *fakeLocationRepo) All() ([]entity.LocationRank, error) {
	return append([]entity.LocationRank(nil), r.rows...), nil
}

type fakeFollowRepo struct {
	userEdges map[[2]string]bool
	users     *fakeUserRepo
	nodeEdges map[string]map[int64]bool
	nodes     map[int64]entity.Node
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{
		userEdges: map[[2]string]bool{},
		users:     users,
		nodeEdges: map[string]map[int64]bool{},
		nodes:     map[int64]entity.Node{},
	}
}

func (r *fakeFollowRepo) Follow(followerID, followedID string) error {
	r.userEdges[[2]string{followerID, followedID}] = true
	return nil
}

func (r *fakeFollowRepo) Unfollow(followerID, followedID string) error {
	delete(r.userEdges, [2]string{followerID, followedID})
	return nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followedID string) (bool, error) {
	return r.userEdges[[2]string{followerID, followedID}], nil
}

func (r *fakeFollowRepo) Following(userID string) ([]entity.User, error) {
	var out []entity.User
	for e := range r.userEdges {
		if e[0] == userID {
			if u, err := r.users.GetByID(e[1]); err == nil {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) Followers(userID string) ([]entity.User, error) {
	var out []entity.User
	for e := range r.userEdges {
		if e[1] == userID {
			if u, err := r.users.GetByID(e[0]); err == nil {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (r *fakeFollowRepo) FollowNode(userID string, nodeID int64) error {
	if r.nodeEdges[userID] == nil {
		r.nodeEdges[userID] = map[int64]bool{}
	}
	r.nodeEdges[userID][nodeID] = true
	return nil
}

func (r *fakeFollowRepo) UnfollowNode(userID string, nodeID int64) error {
	delete(r.nodeEdges[userID], nodeID)
	return nil
}

func (r *fakeFollowRepo) FollowingNodes(userID string) ([]entity.Node, error) {
	var out []entity.Node
	for id := range r.nodeEdges[userID] {
		if n, ok := r.nodes[id]; ok {
			out = append(out, n)
		} else {
			out = append(out, entity.Node{ID: id})
		}
	}
	return out, nil
}

type cacheEntry struct {
	value string
	ttl   time.Duration
}

type fakeCache struct {
	entries map[string]cacheEntry
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]cacheEntry{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	e, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = cacheEntry{value: value, ttl: ttl}
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

type fakePublisher struct {
	published []any
	err       error
}

func (p *fakePublisher) PublishJSON(ctx context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, body)
	return nil
}

type fakeRepoLister struct {
	repos []github.Repository
	err   error
	calls int
}

func (l *fakeRepoLister) UserRepositories(ctx context.Context, handle string) ([]github.Repository, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return append([]github.Repository(nil), l.repos...), nil
}

var (
	_ repo.UserRepository         = (*fakeUserRepo)(nil)
	_ repo.TopicRepository        = (*fakeTopicRepo)(nil)
	_ repo.LikeRepository         = (*fakeLikeRepo)(nil)
	_ repo.NotificationRepository = (*fakeNotificationRepo)(nil)
	_ repo.LocationRepository     = (*fakeLocationRepo)(nil)
	_ repo.FollowRepository       = (*fakeFollowRepo)(nil)
	_ Cache                       = (*fakeCache)(nil)
	_ Publisher                   = (*fakePublisher)(nil)
	_ github.RepoLister           = (*fakeRepoLister)(nil)
)
