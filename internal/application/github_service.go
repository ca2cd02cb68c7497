package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/pkg/github"
)

// GithubService serves a user's repository listing from cache, fetching on
// miss. Fetch failures never reach the caller: they are logged, replaced
// with an empty list, and negatively cached for a shorter TTL to bound
// retry storms. Concurrent misses may both fetch; last write wins, which
// is fine because the fetch is idempotent.
type GithubService struct {
	Lister      github.RepoLister
	Cache       Cache
	Logger      *logrus.Logger
	Limit       int
	CacheTTL    time.Duration
	NegativeTTL time.Duration
}

func NewGithubService(lister github.RepoLister, cache Cache, logger *logrus.Logger,
	limit int, cacheTTL, negativeTTL time.Duration) *GithubService {
	if limit <= 0 {
		limit = 14
	}
	if cacheTTL <= 0 {
		cacheTTL = 7 * 24 * time.Hour
	}
	if negativeTTL <= 0 {
		negativeTTL = 24 * time.Hour
	}
	return &GithubService{
		Lister:      lister,
		Cache:       cache,
		Logger:      logger,
		Limit:       limit,
		CacheTTL:    cacheTTL,
		NegativeTTL: negativeTTL,
	}
}

func (s *GithubService) cacheKey(handle string) string {
	return fmt.Sprintf("github_repositories:%s+%d+v1", handle, s.Limit)
}

// Repositories returns the user's repositories sorted by watchers, capped
// at the configured limit. Always returns a usable (possibly empty) list.
func (s *GithubService) Repositories(ctx context.Context, u *entity.User) []github.Repository {
	if u.Github == "" {
		return []github.Repository{}
	}

	key := s.cacheKey(u.Github)
	if raw, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
		var cached []github.Repository
		if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil {
			return cached
		}
	} else if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("github cache read failed")
	}

	repos, err := s.Lister.UserRepositories(ctx, u.Github)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("github", u.Github).Error("github repository fetch failed")
		}
		s.store(ctx, key, []github.Repository{}, s.NegativeTTL)
		return []github.Repository{}
	}

	sort.Slice(repos, func(i, j int) bool {
		return repos[i].Watchers > repos[j].Watchers
	})
	if len(repos) > s.Limit {
		repos = repos[:s.Limit]
	}
	s.store(ctx, key, repos, s.CacheTTL)
	return repos
}

func (s *GithubService) store(ctx context.Context, key string, repos []github.Repository, ttl time.Duration) {
	b, err := json.Marshal(repos)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, string(b), ttl); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("github cache write failed")
	}
}
