package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forumhq/internal/container"
	handlers "github.com/forumhq/forumhq/internal/interface/http"
	"github.com/forumhq/forumhq/internal/interface/middleware"
	"github.com/forumhq/forumhq/pkg/helpers"
)

// EngagementModule wires topic read tracking, likes and notifications.
// All routes require an authenticated session.

type EngagementModule struct {
	Handler *handlers.EngagementHandler
	JWT     *helpers.JWTManager
}

func NewEngagementModule(h *handlers.EngagementHandler, jwt *helpers.JWTManager) *EngagementModule {
	return &EngagementModule{Handler: h, JWT: jwt}
}

func (m *EngagementModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/topics/:id/read", m.Handler.MarkTopicRead)
		auth.GET("/topics/:id/read", m.Handler.TopicReadState)
		auth.POST("/likes", m.Handler.Like)
		auth.DELETE("/likes", m.Handler.Unlike)
		auth.GET("/notifications", m.Handler.Notifications)
		auth.POST("/notifications/read", m.Handler.ReadNotifications)
	}
}
