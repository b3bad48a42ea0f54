package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/service"
)

// SettingsHandler serves the per-user settings routes.
type SettingsHandler struct {
	responder
	Service service.SettingsServiceInterface
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc service.SettingsServiceInterface, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{responder: responder{logger: logger}, Service: svc}
}

// SettingsResponse wraps the masked settings.
type SettingsResponse struct {
	Settings *model.SettingsView `json:"settings"`
}

// TestAPIKeyRequest optionally names a key to probe instead of the stored one.
type TestAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// @Summary Get settings
// @Description The API key is masked to its last four characters.
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SettingsResponse
// @Router /settings [get]
func (h *SettingsHandler) get(r *apiRequest) (int, any) {
	settings, err := h.Service.GetSettings(r.ctx, r.userID)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, SettingsResponse{Settings: settings}
}

// @Summary Update settings
// @Description Partial update. An empty ai_api_key clears the stored key.
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SettingsPatch true "Fields to change"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ErrorResponse
// @Router /settings [patch]
func (h *SettingsHandler) update(r *apiRequest) (int, any) {
	var patch service.SettingsPatch
	if err := r.bind(&patch); err != nil {
		return h.fail(r, err)
	}
	settings, err := h.Service.UpdateSettings(r.ctx, r.userID, patch)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, SettingsResponse{Settings: settings}
}

// @Summary Test API key
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TestAPIKeyRequest false "Key to test; the stored key when omitted"
// @Success 200 {object} service.APIKeyTest
// @Failure 400 {object} ErrorResponse
// @Router /settings/test-api-key [post]
func (h *SettingsHandler) testAPIKey(r *apiRequest) (int, any) {
	var req TestAPIKeyRequest
	if err := r.bind(&req); err != nil {
		return h.fail(r, err)
	}
	res, err := h.Service.TestAPIKey(r.ctx, r.userID, req.APIKey)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, res
}

// @Summary Delete API key
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /settings/api-key [delete]
func (h *SettingsHandler) deleteAPIKey(r *apiRequest) (int, any) {
	if err := h.Service.DeleteAPIKey(r.ctx, r.userID); err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, SuccessResponse{Success: true, Message: "API key removed"}
}

func (h *SettingsHandler) GetGin(c *gin.Context)                { serveGin(c, h.get) }
func (h *SettingsHandler) GetFiber(c *fiber.Ctx) error          { return serveFiber(c, h.get) }
func (h *SettingsHandler) UpdateGin(c *gin.Context)             { serveGin(c, h.update) }
func (h *SettingsHandler) UpdateFiber(c *fiber.Ctx) error       { return serveFiber(c, h.update) }
func (h *SettingsHandler) TestAPIKeyGin(c *gin.Context)         { serveGin(c, h.testAPIKey) }
func (h *SettingsHandler) TestAPIKeyFiber(c *fiber.Ctx) error   { return serveFiber(c, h.testAPIKey) }
func (h *SettingsHandler) DeleteAPIKeyGin(c *gin.Context)       { serveGin(c, h.deleteAPIKey) }
func (h *SettingsHandler) DeleteAPIKeyFiber(c *fiber.Ctx) error { return serveFiber(c, h.deleteAPIKey) }
