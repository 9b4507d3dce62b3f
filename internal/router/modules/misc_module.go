package modules

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-api/internal/container"
	"github.com/oksasatya/go-user-api/pkg/helpers"
)

// MiscModule serves the healthcheck endpoint: 200 when Postgres answers a
// ping, with the Redis state reported alongside.
type MiscModule struct{}

func NewMiscModule() *MiscModule { return &MiscModule{} }

func (m *MiscModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthcheck", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		dbOK := true
		if db := container.GetBunDB(); db == nil || db.PingContext(ctx) != nil {
			dbOK = false
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"database": dbOK,
			"redis":    helpers.RedisHealthy(c.Request.Context(), container.GetRedis()),
		})
	})
}
