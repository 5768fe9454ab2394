package server

import (
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/actorcontext"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActorMiddleware lifts the identity headers supplied by the authentication
// gateway into the request context. Identity is trusted as-is; verification
// happened upstream.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorcontext.Actor{
			UserID:    c.GetHeader("X-User-Id"),
			Role:      c.GetHeader("X-User-Role"),
			SubCityID: c.GetHeader("X-Sub-City-Id"),
			IPAddress: c.ClientIP(),
		}
		c.Request = c.Request.WithContext(actorcontext.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func RequestLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
			log.Warn("request failed", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
