package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/internal/interface/middleware"
)

// Limits builds rate limiters. A nil Redis turns every limiter into a no-op.
type Limits struct {
	Redis  *redis.Client
	Logger *logrus.Logger
}

func (l Limits) perIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, middleware.RateRule{
		Max:    max,
		Window: time.Minute,
		Key:    middleware.KeyByIPAndPath(),
	}, l.Logger)
}

func (l Limits) perUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, middleware.RateRule{
		Max:    max,
		Window: time.Minute,
		Key:    middleware.KeyByUserID(),
	}, l.Logger)
}

// perIPPublic skips private networks so internal consumers are not throttled.
func (l Limits) perIPPublic(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, middleware.RateRule{
		Max:    max,
		Window: time.Minute,
		Key:    middleware.KeyByIPAndPath(),
		Allow:  middleware.AllowPrivateIP(),
	}, l.Logger)
}
