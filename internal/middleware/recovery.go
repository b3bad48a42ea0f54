package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// GinRecovery turns panics into a 500 JSON response and logs them.
func GinRecovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error().
			Str("request_id", requestIDFromGin(c)).
			Interface("panic", err).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// FiberRecovery converts panics into errors handled by the app's error
// handler and logs them.
func FiberRecovery(logger zerolog.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.Error().
				Str("request_id", requestIDFromFiber(c)).
				Interface("panic", e).
				Str("path", c.Path()).
				Msg("Recovered from panic")
		},
	})
}
