package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/gousero-sin/LifeLogAi/internal/config"
)

var (
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	corsMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
)

func allowsAllOrigins(origins []string) bool {
	return len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
}

// GinCORS builds the gin CORS middleware from the configured origins.
func GinCORS(cfg *config.AppConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if allowsAllOrigins(cfg.CorsAllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CorsAllowedOrigins
	}
	corsConfig.AllowHeaders = corsHeaders
	corsConfig.AllowMethods = corsMethods
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	return cors.New(corsConfig)
}

// FiberCORS builds the fiber CORS middleware from the configured origins.
func FiberCORS(cfg *config.AppConfig) fiber.Handler {
	origins := "*"
	if !allowsAllOrigins(cfg.CorsAllowedOrigins) {
		origins = strings.Join(cfg.CorsAllowedOrigins, ",")
	}
	return fibercors.New(fibercors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  strings.Join(corsHeaders, ","),
		AllowMethods:  strings.Join(corsMethods, ","),
		ExposeHeaders: RequestIDHeader,
	})
}
