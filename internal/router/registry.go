package router

import "github.com/gin-gonic/gin"

// Registry collects feature modules and group-wide middleware, then
// mounts everything under /api in one pass. Middleware added via Use
// runs before any module route.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll applies the shared middleware and lets each module mount
// its routes. Call once, after every Add.
func (r *Registry) RegisterAll() {
	r.API.Use(r.middlewares...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
