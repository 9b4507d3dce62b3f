package router

import "github.com/gin-gonic/gin"

// Module is one routable feature area (user CRUD, healthcheck). Modules
// pull their dependencies from the container and register their routes on
// the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
