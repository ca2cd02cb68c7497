package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forumhq/internal/container"
	handlers "github.com/forumhq/forumhq/internal/interface/http"
	"github.com/forumhq/forumhq/internal/interface/middleware"
)

// LocationModule exposes the materialized location popularity ranking.

type LocationModule struct {
	Handler *handlers.LocationHandler
}

func NewLocationModule(h *handlers.LocationHandler) *LocationModule {
	return &LocationModule{Handler: h}
}

func (m *LocationModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/locations/hot", rl, m.Handler.HotLocations)
}
