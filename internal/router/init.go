package router

import (
	"github.com/oksasatya/go-address-dispatch/internal/container"
	handlers "github.com/oksasatya/go-address-dispatch/internal/interface/http"
	"github.com/oksasatya/go-address-dispatch/internal/router/modules"
)

// InitModules wires every feature module from c and adds it to r.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	limits := modules.Limits{Redis: c.Redis, Logger: c.Logger}
	if !c.Config.RateLimitEnabled {
		limits.Redis = nil
	}

	authHandler := handlers.NewAuthHandler(c.AuthSvc, c.Logger)
	addressHandler := handlers.NewAddressHandler(c.AddressSvc, c.Logger)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(authHandler, limits))
	r.Add(modules.NewPublicModule(addressHandler, limits))
	r.Add(modules.NewAddressModule(addressHandler, c.JWT, limits))
	if c.Config.MetricsEnabled {
		r.Add(modules.NewMetricsModule(c.Metrics))
	}
}
