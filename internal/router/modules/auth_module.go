package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-address-dispatch/internal/interface/http"
)

// AuthModule serves POST /register and POST /login.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Limits.perIP(5), m.Handler.Register) // 5 req/min per IP
	rg.POST("/login", m.Limits.perIP(10), m.Handler.Login)      // 10 req/min per IP
}
