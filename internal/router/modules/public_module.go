package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-address-dispatch/internal/interface/http"
)

type PublicModule struct {
	Handler *handlers.AddressHandler
	Limits  Limits
}

func NewPublicModule(h *handlers.AddressHandler, limits Limits) *PublicModule {
	return &PublicModule{Handler: h, Limits: limits}
}

func (m *PublicModule) Register(rg *gin.RouterGroup) {
	rg.GET("/public/addresses", m.Limits.perIPPublic(300), m.Handler.PublicFeed)
}
