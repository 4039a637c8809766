package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-address-dispatch/internal/interface/http"
	"github.com/oksasatya/go-address-dispatch/internal/interface/middleware"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

// AddressModule holds every route that needs a bearer token.
type AddressModule struct {
	Handler *handlers.AddressHandler
	JWT     *helpers.JWTManager
	Limits  Limits
}

func NewAddressModule(h *handlers.AddressHandler, jwt *helpers.JWTManager, limits Limits) *AddressModule {
	return &AddressModule{Handler: h, JWT: jwt, Limits: limits}
}

func (m *AddressModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT), m.Limits.perUser(120))
	{
		auth.GET("/addresses", m.Handler.List)
		auth.GET("/addresses/search", m.Handler.Search)
		auth.POST("/addresses/export", middleware.RequireAdmin(), m.Handler.Export)
		auth.PUT("/addresses/:id", m.Handler.Transition)
		auth.GET("/stats", m.Handler.Stats)
	}
}
