package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/service"
)

// DashboardHandler serves the dashboard read models and the initial-load
// bootstrap.
type DashboardHandler struct {
	responder
	Service   service.DashboardServiceInterface
	Bootstrap service.BootstrapServiceInterface
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc service.DashboardServiceInterface, bootstrap service.BootstrapServiceInterface, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{responder: responder{logger: logger}, Service: svc, Bootstrap: bootstrap}
}

type StatsResponse struct {
	Stats *model.DashboardStats `json:"stats"`
}

type EmotionsResponse struct {
	Emotions []model.EmotionSummary `json:"emotions"`
}

// SearchRequest is the body of a journal search.
type SearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1"`
}

// @Summary Dashboard stats
// @Description Averages, streak, trends and top tags over the last period days.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param period query int false "Days (default 7)"
// @Success 200 {object} StatsResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) stats(r *apiRequest) (int, any) {
	stats, err := h.Service.GetStats(r.ctx, r.userID, service.ParsePeriod(r.query("period")))
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, StatsResponse{Stats: stats}
}

// @Summary Weekly summary
// @Description Review of the Sunday..Saturday week offset weeks back.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Weeks back (default 0)"
// @Success 200 {object} service.WeeklySummaryResult
// @Failure 400 {object} ErrorResponse
// @Router /dashboard/weekly-summary [get]
func (h *DashboardHandler) weeklySummary(r *apiRequest) (int, any) {
	offset, err := r.queryInt("offset", 0)
	if err != nil {
		return h.fail(r, err)
	}
	if offset < 0 {
		return h.fail(r, badRequest("offset must not be negative"))
	}
	res, err := h.Service.GetWeeklySummary(r.ctx, r.userID, offset)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, res
}

// @Summary Search entries
// @Description Text search without an API key, semantic search with one.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SearchRequest true "Query"
// @Success 200 {object} service.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Router /dashboard/search [post]
func (h *DashboardHandler) search(r *apiRequest) (int, any) {
	var req SearchRequest
	if err := r.bind(&req); err != nil {
		return h.fail(r, err)
	}
	res, err := h.Service.Search(r.ctx, r.userID, req.Query, req.Limit)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, res
}

// @Summary Mood heatmap
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (default current)"
// @Param month query int false "Month 1-12; whole year when omitted"
// @Success 200 {object} service.HeatmapResult
// @Failure 400 {object} ErrorResponse
// @Router /dashboard/heatmap [get]
func (h *DashboardHandler) heatmap(r *apiRequest) (int, any) {
	year, err := r.queryInt("year", 0)
	if err != nil {
		return h.fail(r, err)
	}
	month, err := r.optionalQueryInt("month")
	if err != nil {
		return h.fail(r, err)
	}
	res, err := h.Service.GetHeatmap(r.ctx, r.userID, year, month)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, res
}

// @Summary Emotion summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param period query int false "Days (default 30)"
// @Success 200 {object} EmotionsResponse
// @Router /dashboard/emotions [get]
func (h *DashboardHandler) emotions(r *apiRequest) (int, any) {
	summary, err := h.Service.GetEmotions(r.ctx, r.userID, service.ParseEmotionPeriod(r.query("period")))
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, EmotionsResponse{Emotions: summary}
}

// @Summary Bootstrap
// @Description User, tags, settings, 7-day stats and the latest entries in one call.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Bootstrap
// @Failure 500 {object} ErrorResponse
// @Router /bootstrap [get]
func (h *DashboardHandler) bootstrap(r *apiRequest) (int, any) {
	res, err := h.Bootstrap.Load(r.ctx, r.userID)
	if err != nil {
		h.logger.Error().Err(err).Uint("user_id", r.userID).Msg("Bootstrap failed")
		return http.StatusInternalServerError, ErrorResponse{Error: "could not load initial data"}
	}
	return http.StatusOK, res
}

func (h *DashboardHandler) StatsGin(c *gin.Context)         { serveGin(c, h.stats) }
func (h *DashboardHandler) StatsFiber(c *fiber.Ctx) error   { return serveFiber(c, h.stats) }
func (h *DashboardHandler) WeeklySummaryGin(c *gin.Context) { serveGin(c, h.weeklySummary) }
func (h *DashboardHandler) WeeklySummaryFiber(c *fiber.Ctx) error {
	return serveFiber(c, h.weeklySummary)
}
func (h *DashboardHandler) SearchGin(c *gin.Context)          { serveGin(c, h.search) }
func (h *DashboardHandler) SearchFiber(c *fiber.Ctx) error    { return serveFiber(c, h.search) }
func (h *DashboardHandler) HeatmapGin(c *gin.Context)         { serveGin(c, h.heatmap) }
func (h *DashboardHandler) HeatmapFiber(c *fiber.Ctx) error   { return serveFiber(c, h.heatmap) }
func (h *DashboardHandler) EmotionsGin(c *gin.Context)        { serveGin(c, h.emotions) }
func (h *DashboardHandler) EmotionsFiber(c *fiber.Ctx) error  { return serveFiber(c, h.emotions) }
func (h *DashboardHandler) BootstrapGin(c *gin.Context)       { serveGin(c, h.bootstrap) }
func (h *DashboardHandler) BootstrapFiber(c *fiber.Ctx) error { return serveFiber(c, h.bootstrap) }
