package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/health/db", h.HealthDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(NewHandler(nil, false, zap.NewNop()), "/health")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealthDB(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	require.Equal(t, http.StatusOK, serve(NewHandler(ok, true, zap.NewNop()), "/health/db").Code)
	require.Equal(t, http.StatusOK, serve(NewHandler(nil, true, zap.NewNop()), "/health/db").Code)

	w := serve(NewHandler(down, true, zap.NewNop()), "/health/db")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotContains(t, w.Body.String(), "connection refused")

	w = serve(NewHandler(down, false, zap.NewNop()), "/health/db")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "connection refused")
}
