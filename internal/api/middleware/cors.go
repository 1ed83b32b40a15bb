package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfigCORS allows credentialed cross-origin calls from allowedDomains. With
// no domains configured only same-origin clients are served and no CORS
// headers are written.
func ConfigCORS(allowedDomains []string) gin.HandlerFunc {
	if len(allowedDomains) == 0 {
		zap.L().Warn("no CORS domains configured, cross-origin requests get no CORS headers")
		return func(ctx *gin.Context) {
			ctx.Next()
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedDomains,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
