package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gousero-sin/LifeLogAi/internal/ai"
	"github.com/gousero-sin/LifeLogAi/internal/model"
	"github.com/gousero-sin/LifeLogAi/internal/service"
)

// EntryHandler serves the journal entry routes.
type EntryHandler struct {
	responder
	Service service.EntryServiceInterface
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(svc service.EntryServiceInterface, logger zerolog.Logger) *EntryHandler {
	return &EntryHandler{responder: responder{logger: logger}, Service: svc}
}

// EntryListResponse is one page of entries.
type EntryListResponse struct {
	Entries []model.Entry `json:"entries"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// EntryResponse wraps a single entry; Entry is null when no entry exists.
type EntryResponse struct {
	Entry *model.Entry `json:"entry"`
}

// InsightsResponse carries a freshly generated daily insight.
type InsightsResponse struct {
	Insights *ai.DailyInsight `json:"insights"`
}

// FavoriteResponse reports the favorite flag after a toggle.
type FavoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

func parseDate(raw, name string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(model.DateLayout, raw); err != nil {
		return "", badRequest("%s must match the format %s", name, model.DateLayout)
	}
	return raw, nil
}

func (r *apiRequest) entryFilter() (model.EntryFilter, error) {
	var (
		f   model.EntryFilter
		err error
	)
	if f.Limit, err = r.queryInt("limit", 0); err != nil {
		return f, err
	}
	if f.Offset, err = r.queryInt("offset", 0); err != nil {
		return f, err
	}
	if f.StartDate, err = parseDate(r.query("start_date"), "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDate(r.query("end_date"), "end_date"); err != nil {
		return f, err
	}
	if f.MinMood, err = r.optionalQueryInt("min_mood"); err != nil {
		return f, err
	}
	if f.MaxMood, err = r.optionalQueryInt("max_mood"); err != nil {
		return f, err
	}
	tagID, err := r.optionalQueryInt("tag_id")
	if err != nil {
		return f, err
	}
	if tagID != nil {
		if *tagID <= 0 {
			return f, badRequest("invalid tag_id")
		}
		id := uint(*tagID)
		f.TagID = &id
	}
	f.Limit = service.ClampEntryLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f, nil
}

// @Summary List entries
// @Description Newest first, each entry with its tags.
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 30, max 100)"
// @Param offset query int false "Offset"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param tag_id query int false "Only entries with this tag"
// @Param min_mood query int false "Minimum mood"
// @Param max_mood query int false "Maximum mood"
// @Success 200 {object} EntryListResponse
// @Failure 400 {object} ErrorResponse
// @Router /entries [get]
func (h *EntryHandler) list(r *apiRequest) (int, any) {
	filter, err := r.entryFilter()
	if err != nil {
		return h.fail(r, err)
	}
	entries, total, err := h.Service.ListEntries(r.ctx, r.userID, filter)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, EntryListResponse{Entries: entries, Total: total, Limit: filter.Limit, Offset: filter.Offset}
}

// @Summary Get entry
// @Description Entry with tags, insights (newest first) and emotions.
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} model.Entry
// @Failure 404 {object} ErrorResponse
// @Router /entries/{id} [get]
func (h *EntryHandler) get(r *apiRequest) (int, any) {
	id, err := r.pathID("id")
	if err != nil {
		return h.fail(r, err)
	}
	entry, err := h.Service.GetEntry(r.ctx, r.userID, id)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, entry
}

// @Summary Get entry by date
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} EntryResponse
// @Failure 400 {object} ErrorResponse
// @Router /entries/date/{date} [get]
func (h *EntryHandler) getByDate(r *apiRequest) (int, any) {
	date, err := parseDate(r.param("date"), "date")
	if err != nil {
		return h.fail(r, err)
	}
	if date == "" {
		return h.fail(r, badRequest("date is required"))
	}
	entry, err := h.Service.GetEntryByDate(r.ctx, r.userID, date)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, EntryResponse{Entry: entry}
}

// @Summary Save entry
// @Description Creates or replaces the entry of entry_date. Insights may be generated on the way.
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.EntryInput true "Entry"
// @Success 200 {object} model.Entry "Updated"
// @Success 201 {object} model.Entry "Created"
// @Failure 400 {object} ErrorResponse
// @Router /entries [post]
func (h *EntryHandler) save(r *apiRequest) (int, any) {
	var in service.EntryInput
	if err := r.bind(&in); err != nil {
		return h.fail(r, err)
	}
	entry, created, err := h.Service.SaveEntry(r.ctx, r.userID, in)
	if err != nil {
		return h.fail(r, err)
	}
	if created {
		return http.StatusCreated, entry
	}
	return http.StatusOK, entry
}

// @Summary Generate insights
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} InsightsResponse
// @Failure 400 {object} ErrorResponse "Private entry or no API key"
// @Failure 404 {object} ErrorResponse
// @Router /entries/{id}/insights [post]
func (h *EntryHandler) insights(r *apiRequest) (int, any) {
	id, err := r.pathID("id")
	if err != nil {
		return h.fail(r, err)
	}
	insight, err := h.Service.GenerateInsights(r.ctx, r.userID, id)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, InsightsResponse{Insights: insight}
}

// @Summary Toggle favorite
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} FavoriteResponse
// @Failure 404 {object} ErrorResponse
// @Router /entries/{id}/favorite [patch]
func (h *EntryHandler) favorite(r *apiRequest) (int, any) {
	id, err := r.pathID("id")
	if err != nil {
		return h.fail(r, err)
	}
	fav, err := h.Service.ToggleFavorite(r.ctx, r.userID, id)
	if err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, FavoriteResponse{IsFavorite: fav}
}

// @Summary Delete entry
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /entries/{id} [delete]
func (h *EntryHandler) delete(r *apiRequest) (int, any) {
	id, err := r.pathID("id")
	if err != nil {
		return h.fail(r, err)
	}
	if err := h.Service.DeleteEntry(r.ctx, r.userID, id); err != nil {
		return h.fail(r, err)
	}
	return http.StatusOK, SuccessResponse{Success: true}
}

func (h *EntryHandler) ListGin(c *gin.Context)                   { serveGin(c, h.list) }
func (h *EntryHandler) ListFiber(c *fiber.Ctx) error             { return serveFiber(c, h.list) }
func (h *EntryHandler) GetGin(c *gin.Context)                    { serveGin(c, h.get) }
func (h *EntryHandler) GetFiber(c *fiber.Ctx) error              { return serveFiber(c, h.get) }
func (h *EntryHandler) GetByDateGin(c *gin.Context)              { serveGin(c, h.getByDate) }
func (h *EntryHandler) GetByDateFiber(c *fiber.Ctx) error        { return serveFiber(c, h.getByDate) }
func (h *EntryHandler) SaveGin(c *gin.Context)                   { serveGin(c, h.save) }
func (h *EntryHandler) SaveFiber(c *fiber.Ctx) error             { return serveFiber(c, h.save) }
func (h *EntryHandler) GenerateInsightsGin(c *gin.Context)       { serveGin(c, h.insights) }
func (h *EntryHandler) GenerateInsightsFiber(c *fiber.Ctx) error { return serveFiber(c, h.insights) }
func (h *EntryHandler) ToggleFavoriteGin(c *gin.Context)         { serveGin(c, h.favorite) }
func (h *EntryHandler) ToggleFavoriteFiber(c *fiber.Ctx) error   { return serveFiber(c, h.favorite) }
func (h *EntryHandler) DeleteGin(c *gin.Context)                 { serveGin(c, h.delete) }
func (h *EntryHandler) DeleteFiber(c *fiber.Ctx) error           { return serveFiber(c, h.delete) }
