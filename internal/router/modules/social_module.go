package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forumhq/internal/container"
	handlers "github.com/forumhq/forumhq/internal/interface/http"
	"github.com/forumhq/forumhq/internal/interface/middleware"
	"github.com/forumhq/forumhq/pkg/helpers"
)

// SocialModule wires the user and node follow graph.

type SocialModule struct {
	Handler *handlers.SocialHandler
	JWT     *helpers.JWTManager
}

func NewSocialModule(h *handlers.SocialHandler, jwt *helpers.JWTManager) *SocialModule {
	return &SocialModule{Handler: h, JWT: jwt}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/users/:id/following", publicLimiter, m.Handler.Following)
	rg.GET("/users/:id/followers", publicLimiter, m.Handler.Followers)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/users/:id/follow", m.Handler.Follow)
		auth.DELETE("/users/:id/follow", m.Handler.Unfollow)
		auth.POST("/nodes/:id/follow", m.Handler.FollowNode)
		auth.DELETE("/nodes/:id/follow", m.Handler.UnfollowNode)
		auth.GET("/me/nodes", m.Handler.FollowingNodes)
	}
}
