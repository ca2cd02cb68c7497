package router

import (
	"github.com/forumhq/forumhq/internal/application"
	"github.com/forumhq/forumhq/internal/container"
	pginfra "github.com/forumhq/forumhq/internal/infrastructure/postgres"
	handlers "github.com/forumhq/forumhq/internal/interface/http"
	"github.com/forumhq/forumhq/internal/router/modules"
	"github.com/forumhq/forumhq/pkg/github"
)

// Deps groups the repositories, services and handlers built from the
// container singletons. Built once at startup.
type Deps struct {
	Users       *application.UserService
	Social      *application.SocialService
	Engagement  *application.EngagementService
	Locations   *application.LocationService
	Github      *application.GithubService
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	followRepo := pginfra.NewFollowRepository(pool)
	likeRepo := pginfra.NewLikeRepository(pool)
	topicRepo := pginfra.NewTopicRepository(pool)
	notifRepo := pginfra.NewNotificationRepository(pool)
	locationRepo := pginfra.NewLocationRepository(pool)

	// Nil guards keep interface values nil when the backing client is
	// absent (optional infra in dev).
	var cache application.Cache
	if c := container.GetCache(); c != nil {
		cache = c
	}
	var pub application.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	userSvc := application.NewUserService(
		userRepo, topicRepo, notifRepo,
		container.GetJWT(),
		container.GetRedis(),
		pub,
		logger,
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.AdminEmailList(),
	)
	socialSvc := application.NewSocialService(userRepo, followRepo)
	engagementSvc := application.NewEngagementService(topicRepo, likeRepo, notifRepo, cache, logger)
	locationSvc := application.NewLocationService(locationRepo, logger)
	githubSvc := application.NewGithubService(
		github.NewClient(cfg.GithubAPIBase),
		cache,
		logger,
		cfg.GithubReposLimit,
		cfg.GithubCacheTTL,
		cfg.GithubNegativeCacheTTL,
	)

	return Deps{
		Users:       userSvc,
		Social:      socialSvc,
		Engagement:  engagementSvc,
		Locations:   locationSvc,
		Github:      githubSvc,
		AuthHandler: handlers.NewAuthHandler(userSvc, cache, pub, logger, cfg),
		UserHandler: handlers.NewUserHandler(userSvc, githubSvc, container.GetGCS(), cfg.GCSBucket, logger, cfg),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	deps := buildDeps()

	var pub application.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	jwt := container.GetJWT()
	r.Add(modules.NewAuthModule(deps.AuthHandler, jwt))
	r.Add(modules.NewUserModule(deps.UserHandler, jwt))
	r.Add(modules.NewSocialModule(handlers.NewSocialHandler(deps.Social), jwt))
	r.Add(modules.NewEngagementModule(handlers.NewEngagementHandler(deps.Engagement), jwt))
	r.Add(modules.NewLocationModule(handlers.NewLocationHandler(deps.Locations, cfg.HotLocationsLimit)))
	r.Add(modules.NewEmailModule(handlers.NewEmailHandler(pub, logger), jwt))
	r.Add(modules.NewDebugModule())
}
