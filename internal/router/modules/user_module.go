package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-api/internal/container"
	handlers "github.com/oksasatya/go-user-api/internal/interface/http"
	"github.com/oksasatya/go-user-api/internal/interface/middleware"
)

// UserModule wires the user CRUD handlers into routes under /api/users.
// Mutating routes get a per-IP rate limit; the limiter is a no-op when
// Redis is not configured.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	max, window := 60, time.Minute
	if cfg := container.GetConfig(); cfg != nil {
		max, window = cfg.WriteRateMax, cfg.WriteRateWindow
	}
	writeLimiter := middleware.RateLimit(container.GetRedis(), max, window, middleware.KeyByIP())

	users := rg.Group("/users")
	{
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.Get)
		users.POST("", writeLimiter, m.Handler.Create)
		users.PATCH("/:id", writeLimiter, m.Handler.Update)
		users.DELETE("/:id", writeLimiter, m.Handler.Delete)
	}
}
