package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gousero-sin/LifeLogAi/pkg/database"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	DB      *gorm.DB
	App     string
	Version string
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, app, version string) *HealthHandler {
	return &HealthHandler{DB: db, App: app, Version: version, now: time.Now}
}

// HealthCheckResponse defines the structure for the health check response.
type HealthCheckResponse struct {
	ServerStatus   string `json:"server_status"`
	DatabaseStatus string `json:"database_status"`
	App            string `json:"app"`
	Version        string `json:"version"`
	Timestamp      string `json:"timestamp"`
}

// @Summary API Health Check
// @Description Check the health of the API and database connection.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthCheckResponse "Successfully checked health"
// @Failure 503 {object} HealthCheckResponse "Service unavailable if database ping fails"
// @Router /health [get]
func (h *HealthHandler) check(*apiRequest) (int, any) {
	response := HealthCheckResponse{
		ServerStatus:   "OK",
		DatabaseStatus: "OK",
		App:            h.App,
		Version:        h.Version,
		Timestamp:      h.now().UTC().Format(time.RFC3339),
	}
	if err := database.PingDB(h.DB); err != nil {
		response.DatabaseStatus = "Error: " + err.Error()
		return http.StatusServiceUnavailable, response
	}
	return http.StatusOK, response
}

// CheckHealthFiber is the health check endpoint handler for Fiber.
func (h *HealthHandler) CheckHealthFiber(c *fiber.Ctx) error { return serveFiber(c, h.check) }

// CheckHealthGin is the health check endpoint handler for Gin.
func (h *HealthHandler) CheckHealthGin(c *gin.Context) { serveGin(c, h.check) }
