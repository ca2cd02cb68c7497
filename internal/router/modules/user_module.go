package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forumhq/internal/container"
	handlers "github.com/forumhq/forumhq/internal/interface/http"
	"github.com/forumhq/forumhq/internal/interface/middleware"
	"github.com/forumhq/forumhq/pkg/helpers"
)

// UserModule wires profile, search, GitHub listing and the admin
// lifecycle routes.
// Public: GET /api/u/:login, GET /api/u/:login/repositories, GET /api/users/hot
// Protected: GET/PUT /api/profile, POST /api/profile/avatar, POST /api/profile/bind,
// GET /api/users/search, POST /api/admin/users/:id/block, DELETE /api/admin/users/:id

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	publicLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/u/:login", publicLimiter, m.Handler.GetByLogin)
	rg.GET("/u/:login/repositories", publicLimiter, m.Handler.Repositories)
	rg.GET("/users/hot", publicLimiter, m.Handler.HotUsers)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.POST("/profile/bind", m.Handler.Bind)
		// Search users via Elasticsearch
		auth.GET("/users/search", m.Handler.Search)

		// Admin-only lifecycle transitions; the handler enforces the allow-list.
		auth.POST("/admin/users/:id/block", m.Handler.Block)
		auth.DELETE("/admin/users/:id", m.Handler.SoftDelete)
	}
}
