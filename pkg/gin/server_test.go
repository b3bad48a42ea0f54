package gin_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gousero-sin/LifeLogAi/internal/middleware"
	"github.com/gousero-sin/LifeLogAi/internal/testutil"
	"github.com/gousero-sin/LifeLogAi/internal/testutil/apitest"
	ginserver "github.com/gousero-sin/LifeLogAi/pkg/gin"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newClient(t *testing.T) (*apiClient, *apitest.Env) {
	env := apitest.New(t)
	limiter := middleware.NewRateLimiter(env.Config.RateLimitPerSecond, env.Config.RateLimitBurst)
	router := ginserver.NewGinServer(env.Config, env.Handler, limiter, zerolog.Nop())
	return &apiClient{t: t, router: router}, env
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (c *apiClient) signUp(email string) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": email, "password": "secret1", "name": "Ana",
	})
	require.Equal(c.t, http.StatusCreated, status, body)
	c.token = body["token"].(string)
}

func TestHealth(t *testing.T) {
	c, _ := newClient(t)
	status, body := c.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body["server_status"])
	assert.Equal(t, "OK", body["database_status"])
	assert.Equal(t, "LifeLog", body["app"])
	assert.Equal(t, "test", body["version"])
}

func TestAuthFlow(t *testing.T) {
	c, _ := newClient(t)

	status, _ := c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	c.signUp("Ana@Example.com")

	status, body := c.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", body["user"].(map[string]any)["email"])

	status, body = c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "ana@example.com", "password": "secret1", "name": "Ana",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])

	status, _ = c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"email": "short@example.com", "password": "123", "name": "Bo",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ana@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", body["error"])

	status, body = c.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ana@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c, _ := newClient(t)
	for _, path := range []string{"/api/entries", "/api/tags", "/api/settings", "/api/dashboard/stats", "/api/bootstrap"} {
		status, _ := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
	c.token = "not-a-token"
	status, _ := c.do(http.MethodGet, "/api/entries", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestEntryLifecycle(t *testing.T) {
	c, env := newClient(t)
	c.signUp("ana@example.com")
	today := testutil.Today(0)
	workID := testutil.SystemTagID(t, env.DB, "work")

	status, body := c.do(http.MethodPost, "/api/entries", map[string]any{
		"entry_date": today, "mood": 11,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "mood must be at most 10", body["error"])

	status, body = c.do(http.MethodPost, "/api/entries", map[string]any{
		"entry_date": today, "mood": 7, "content": "Quiet day at the lake", "tag_ids": []uint{workID},
	})
	require.Equal(t, http.StatusCreated, status, body)
	id := uint(body["id"].(float64))
	assert.Len(t, body["tags"], 1)

	status, _ = c.do(http.MethodPost, "/api/entries", map[string]any{"entry_date": today, "mood": 8})
	assert.Equal(t, http.StatusOK, status)

	status, body = c.do(http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 30, body["limit"])

	status, _ = c.do(http.MethodGet, "/api/entries?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodGet, "/api/entries/date/"+today, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 8, body["entry"].(map[string]any)["mood"])

	status, body = c.do(http.MethodGet, "/api/entries/date/"+testutil.Today(-3), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["entry"])

	status, body = c.do(http.MethodPatch, fmt.Sprintf("/api/entries/%d/favorite", id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_favorite"])

	status, body = c.do(http.MethodPost, fmt.Sprintf("/api/entries/%d/insights", id), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "API key")

	status, body = c.do(http.MethodPatch, "/api/settings", map[string]any{"ai_api_key": "sk-test-1234"})
	require.Equal(t, http.StatusOK, status)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, "sk-...1234", settings["ai_api_key"])
	assert.Equal(t, true, settings["has_api_key"])

	status, body = c.do(http.MethodPost, fmt.Sprintf("/api/entries/%d/insights", id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "A steady day.", body["insights"].(map[string]any)["summary"])

	status, body = c.do(http.MethodGet, fmt.Sprintf("/api/entries/%d", id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["is_favorite"])
	assert.NotEmpty(t, body["insights"])
	assert.NotEmpty(t, body["emotions"])

	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/entries/%d", id), nil)
	assert.Equal(t, http.StatusOK, status)
	status, body = c.do(http.MethodGet, fmt.Sprintf("/api/entries/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "entry not found", body["error"])

	status, _ = c.do(http.MethodGet, "/api/entries/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUntaggedEntryEncodesEmptyRelations(t *testing.T) {
	c, _ := newClient(t)
	c.signUp("ana@example.com")
	today := testutil.Today(0)

	status, body := c.do(http.MethodPost, "/api/entries", map[string]any{"entry_date": today, "mood": 6})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, []any{}, body["tags"])
	id := uint(body["id"].(float64))

	status, body = c.do(http.MethodGet, fmt.Sprintf("/api/entries/%d", id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["tags"])
	assert.Equal(t, []any{}, body["insights"])
	assert.Equal(t, []any{}, body["emotions"])

	status, body = c.do(http.MethodGet, "/api/entries/date/"+today, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["entry"].(map[string]any)["tags"])

	status, body = c.do(http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, status)
	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, []any{}, entries[0].(map[string]any)["tags"])
}

func TestPrivateEntryRejectsInsights(t *testing.T) {
	c, env := newClient(t)
	c.signUp("ana@example.com")
	status, _ := c.do(http.MethodPatch, "/api/settings", map[string]any{"ai_api_key": "sk-test-1234"})
	require.Equal(t, http.StatusOK, status)

	status, body := c.do(http.MethodPost, "/api/entries", map[string]any{
		"entry_date": testutil.Today(0), "content": "secret", "is_private": true,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Zero(t, env.Generator.Calls, "private entries are never sent to the AI")

	status, _ = c.do(http.MethodPost, fmt.Sprintf("/api/entries/%d/insights", uint(body["id"].(float64))), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTags(t *testing.T) {
	c, _ := newClient(t)
	c.signUp("ana@example.com")

	status, body := c.do(http.MethodPost, "/api/tags", map[string]any{"name": "  Gardening "})
	require.Equal(t, http.StatusCreated, status)
	tag := body["tag"].(map[string]any)
	assert.Equal(t, "gardening", tag["name"])
	assert.Equal(t, "#6366f1", tag["color"])
	tagID := uint(tag["id"].(float64))

	status, _ = c.do(http.MethodPost, "/api/tags", map[string]any{"name": "GARDENING"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = c.do(http.MethodPost, "/api/tags", map[string]any{"name": "Work"})
	assert.Equal(t, http.StatusBadRequest, status, "system tag names are taken")
	status, _ = c.do(http.MethodPost, "/api/tags", map[string]any{"name": "x", "color": "red"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, status)
	tags := body["tags"].([]any)
	assert.Len(t, tags, 11)
	assert.Equal(t, true, tags[0].(map[string]any)["is_system"])
	assert.Equal(t, "gardening", tags[len(tags)-1].(map[string]any)["name"])

	status, body = c.do(http.MethodPatch, fmt.Sprintf("/api/tags/%d", tagID), map[string]any{"color": "#00ff00"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "#00ff00", body["tag"].(map[string]any)["color"])

	status, _ = c.do(http.MethodGet, "/api/tags/stats", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/tags/%d", tagID), nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/tags/%d", tagID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSettings(t *testing.T) {
	c, _ := newClient(t)
	c.signUp("ana@example.com")

	status, body := c.do(http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, status)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, "medium", settings["ai_depth"])
	assert.Nil(t, settings["ai_api_key"])
	assert.Equal(t, false, settings["has_api_key"])

	status, _ = c.do(http.MethodPatch, "/api/settings", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = c.do(http.MethodPatch, "/api/settings", map[string]any{"ai_depth": "abyssal"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = c.do(http.MethodPatch, "/api/settings", map[string]any{"notification_time": "25:99"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodPost, "/api/settings/test-api-key", nil)
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = c.do(http.MethodPost, "/api/settings/test-api-key", map[string]any{"api_key": apitest.BadKey})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["valid"])

	status, body = c.do(http.MethodPost, "/api/settings/test-api-key", map[string]any{"api_key": "sk-good"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["valid"])

	status, body = c.do(http.MethodDelete, "/api/settings/api-key", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
}

func TestDashboard(t *testing.T) {
	c, _ := newClient(t)
	c.signUp("ana@example.com")
	for i, mood := range []int{6, 8} {
		status, _ := c.do(http.MethodPost, "/api/entries", map[string]any{
			"entry_date": testutil.Today(-i), "mood": mood, "content": "walked by the river",
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := c.do(http.MethodGet, "/api/dashboard/stats?period=7", nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["totalEntries"])
	assert.EqualValues(t, 7, stats["avgMood"])
	assert.EqualValues(t, 2, stats["currentStreak"])

	status, body = c.do(http.MethodGet, "/api/dashboard/weekly-summary", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "period")
	assert.Contains(t, body, "summary")

	status, _ = c.do(http.MethodGet, "/api/dashboard/weekly-summary?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodPost, "/api/dashboard/search", map[string]any{"query": "river"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text", body["method"])
	assert.Len(t, body["results"], 2)

	status, _ = c.do(http.MethodPost, "/api/dashboard/search", map[string]any{"query": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPatch, "/api/settings", map[string]any{"ai_api_key": "sk-test-1234"})
	require.Equal(t, http.StatusOK, status)
	status, body = c.do(http.MethodPost, "/api/dashboard/search", map[string]any{"query": "river"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "semantic", body["method"])
	assert.Equal(t, "Found it.", body["summary"])

	status, body = c.do(http.MethodGet, "/api/dashboard/heatmap", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["heatmap"])
	assert.Nil(t, body["month"])

	status, _ = c.do(http.MethodGet, "/api/dashboard/heatmap?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do(http.MethodGet, "/api/dashboard/emotions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotNil(t, body["emotions"])

	for _, period := range []string{"abc", "-3", "9223372036854775807"} {
		status, body = c.do(http.MethodGet, "/api/dashboard/emotions?period="+period, nil)
		assert.Equal(t, http.StatusOK, status, period)
		assert.NotNil(t, body["emotions"], period)

		status, _ = c.do(http.MethodGet, "/api/dashboard/stats?period="+period, nil)
		assert.Equal(t, http.StatusOK, status, period)
	}
}

func TestBootstrap(t *testing.T) {
	c, _ := newClient(t)
	c.signUp("ana@example.com")

	status, body := c.do(http.MethodGet, "/api/bootstrap", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", body["user"].(map[string]any)["email"])
	assert.Len(t, body["tags"], 10)
	assert.NotNil(t, body["settings"])
	assert.NotNil(t, body["stats"])
	assert.Empty(t, body["entries"])
}

func TestMetricsAndUnknownRoute(t *testing.T) {
	c, _ := newClient(t)
	c.do(http.MethodGet, "/api/health", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lifelog_http_requests_total")

	status, body := c.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "route not found", body["error"])
}
