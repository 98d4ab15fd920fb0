package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/recipes-api/internal/config"
	"github.com/sakif/recipes-api/internal/middleware"
	"github.com/sakif/recipes-api/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	s, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func memoryConfig() config.Config {
	return config.Config{Port: 0, DBPath: ":memory:", ResetOnStart: true, LogLevel: slog.LevelError}
}

func request(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func recipeList(t *testing.T, raw json.RawMessage) []*model.Recipe {
	t.Helper()
	var list []*model.Recipe
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

func message(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var m string
	require.NoError(t, json.Unmarshal(body["message"], &m))
	return m
}

func TestScenarios(t *testing.T) {
	ts := newTestServer(t, memoryConfig())

	// 1. Create a recipe; it gets the next id after the seeds.
	resp, body := request(t, ts, http.MethodPost, "/recipes",
		`{"title":"Tea","making_time":"5 min","serves":"1","ingredients":"water,leaves","cost":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := recipeList(t, body["recipe"])
	require.Len(t, created, 1)
	assert.Equal(t, int64(3), created[0].ID)
	assert.Equal(t, "Tea", created[0].Title)

	// 2. Missing fields are rejected with the required list.
	resp, body = request(t, ts, http.MethodPost, "/recipes", `{"title":"Tea"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Recipe creation failed!", message(t, body))
	assert.JSONEq(t, `"title, making_time, serves, ingredients, cost"`, string(body["required"]))

	// 3. Unknown id.
	resp, body = request(t, ts, http.MethodGet, "/recipes/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No Recipe found", message(t, body))

	// 4. Update moves updated_at forward and leaves created_at alone.
	_, body = request(t, ts, http.MethodGet, "/recipes/1", "")
	var before model.Recipe
	require.NoError(t, json.Unmarshal(body["recipe"], &before))

	resp, body = request(t, ts, http.MethodPatch, "/recipes/1",
		`{"title":"Tea","making_time":"5 min","serves":"1","ingredients":"water,leaves","cost":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	after := recipeList(t, body["recipe"])[0]
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt) || after.UpdatedAt.Equal(before.UpdatedAt))

	// 5. Delete, then the recipe is gone.
	resp, _ = request(t, ts, http.MethodDelete, "/recipes/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = request(t, ts, http.MethodGet, "/recipes/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRestartResetsTable(t *testing.T) {
	cfg := memoryConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "recipes.db")

	first, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(first.Handler())
	for i := 0; i < 3; i++ {
		resp, _ := request(t, ts, http.MethodPost, "/recipes",
			`{"title":"Tea","making_time":"5 min","serves":"1","ingredients":"water","cost":10}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	ts.Close()
	require.NoError(t, first.Close())

	second := newTestServer(t, cfg)
	_, body := request(t, second, http.MethodGet, "/recipes", "")
	assert.Len(t, recipeList(t, body["recipes"]), 2, "restart must leave exactly the seed rows")
}

func TestRestartWithoutResetKeepsData(t *testing.T) {
	cfg := memoryConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "recipes.db")

	first, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	ts := httptest.NewServer(first.Handler())
	resp, _ := request(t, ts, http.MethodPost, "/recipes",
		`{"title":"Tea","making_time":"5 min","serves":"1","ingredients":"water","cost":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ts.Close()
	require.NoError(t, first.Close())

	cfg.ResetOnStart = false
	second := newTestServer(t, cfg)
	_, body := request(t, second, http.MethodGet, "/recipes", "")
	assert.Len(t, recipeList(t, body["recipes"]), 3)
}

func TestOperationalEndpoints(t *testing.T) {
	ts := newTestServer(t, memoryConfig())

	resp, _ := request(t, ts, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, _ = request(t, ts, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Generate one labelled sample, then scrape.
	request(t, ts, http.MethodGet, "/recipes/1", "")
	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	scrape, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(scrape), `recipes_http_requests_total{method="GET",route="/recipes/{id}",status="200"}`)
}

func TestUnsupportedMethod(t *testing.T) {
	ts := newTestServer(t, memoryConfig())

	resp, _ := request(t, ts, http.MethodPut, "/recipes/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
