package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/service"
)

// TagHandler serves the tag routes.
type TagHandler struct {
	responder
	Service service.TagServiceInterface
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(svc service.TagServiceInterface, logger zerolog.Logger) *TagHandler {
	return &TagHandler{responder: responder{logger: logger}, Service: svc}
}

type TagsResponse struct {
	Tags []model.Tag `json:"tags"`
}

type TagResponse struct {
	Tag *model.Tag `json:"tag"`
}

type TagStatsResponse struct {
	Stats []model.TagUsage `json:"stats"`
}

// @Summary List tags
// @Description System tags first, then the caller's own, each group by name.
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TagsResponse
// @Router /tags [get]
func (h *TagHandler) list(r *apiRequest) (int, any) {
	tags, err := h.Service.ListTags(r.ctx, r.userID)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, TagsResponse{Tags: tags}
}

// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TagInput true "Tag"
// @Success 201 {object} TagResponse
// @Failure 400 {object} ErrorResponse
// @Router /tags [post]
func (h *TagHandler) create(r *apiRequest) (int, any) {
	var in service.TagInput
	if err := r.bind(&in); err != nil {
		return h.fail(r, err)
	}
	tag, err := h.Service.CreateTag(r.ctx, r.userID, in)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusCreated, TagResponse{Tag: tag}
}

// @Summary Update tag
// @Description Only the caller's own tags can be changed.
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param body body service.TagInput true "Fields to change"
// @Success 200 {object} TagResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tags/{id} [patch]
func (h *TagHandler) update(r *apiRequest) (int, any) {
	id, err := r.pathID("id")
	if err != nil {
		return h.fail(r, err)
	}
	var in service.TagInput
	if err := r.bind(&in); err != nil {
		return h.fail(r, err)
	}
	tag, err := h.Service.UpdateTag(r.ctx, r.userID, id, in)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, TagResponse{Tag: tag}
}

// @Summary Delete tag
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /tags/{id} [delete]
func (h *TagHandler) delete(r *apiRequest) (int, any) {
	id, err := r.pathID("id")
	if err != nil {
		return h.fail(r, err)
	}
	if err := h.Service.DeleteTag(r.ctx, r.userID, id); err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, SuccessResponse{Success: true}
}

// @Summary Tag usage
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TagStatsResponse
// @Router /tags/stats [get]
func (h *TagHandler) stats(r *apiRequest) (int, any) {
	usage, err := h.Service.GetTagStats(r.ctx, r.userID)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, TagStatsResponse{Stats: usage}
}

func (h *TagHandler) ListGin(c *gin.Context)         { serveGin(c, h.list) }
func (h *TagHandler) ListFiber(c *fiber.Ctx) error   { return serveFiber(c, h.list) }
func (h *TagHandler) CreateGin(c *gin.Context)       { serveGin(c, h.create) }
func (h *TagHandler) CreateFiber(c *fiber.Ctx) error { return serveFiber(c, h.create) }
func (h *TagHandler) UpdateGin(c *gin.Context)       { serveGin(c, h.update) }
func (h *TagHandler) UpdateFiber(c *fiber.Ctx) error { return serveFiber(c, h.update) }
func (h *TagHandler) DeleteGin(c *gin.Context)       { serveGin(c, h.delete) }
func (h *TagHandler) DeleteFiber(c *fiber.Ctx) error { return serveFiber(c, h.delete) }
func (h *TagHandler) StatsGin(c *gin.Context)        { serveGin(c, h.stats) }
func (h *TagHandler) StatsFiber(c *fiber.Ctx) error  { return serveFiber(c, h.stats) }
