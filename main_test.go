package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smart-restaurant-api/config"
	"smart-restaurant-api/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) (*gin.Engine, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		DBDriver:       "sqlite",
		DatabaseDSN:    ":memory:",
		JWTSecret:      "test",
		UploadDir:      t.TempDir(),
		UploadURL:      "/uploads",
		UploadMaxBytes: 5 << 20,
		StorageDisk:    "local",
		CORSOrigins:    []string{"*"},
	}
	db, err := config.OpenDB(cfg)
	require.NoError(t, err)
	r, err := newRouter(cfg, db, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), metrics.New())
	require.NoError(t, err)
	return r, cfg
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `restaurant_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRouter_OrderWritesAreCounted(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/orders/99", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "restaurant_orders_deleted_total 0")
}

func TestRouter_ServesUploads(t *testing.T) {
	r, cfg := testRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDir, "a.png"), []byte("png"), 0o644))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/a.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "png"))
}
