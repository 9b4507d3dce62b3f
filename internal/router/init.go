package router

import (
	"github.com/oksasatya/go-user-api/internal/application"
	"github.com/oksasatya/go-user-api/internal/container"
	handlers "github.com/oksasatya/go-user-api/internal/interface/http"
	"github.com/oksasatya/go-user-api/internal/router/modules"
)

// InitModules wires all application modules from the container singletons
// and registers them with the router registry. Called once at startup.
func InitModules(r *Registry) {
	manager := application.NewUserManager(container.GetBunDB(), container.GetPageCodec())
	handler := handlers.NewUserHandler(manager, container.GetLogger())

	r.Add(modules.NewUserModule(handler))
	r.Add(modules.NewMiscModule())
}
