package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSystemRoutes(t *testing.T) {
	g := gin.New()
	RegisterSystemRoutes(g, pingFunc(func(context.Context) error { return nil }), time.Now())

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var banner map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &banner))
	require.Equal(t, "Welcome to the Recipe API", banner["message"])

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ready"`)
}

func TestReadyReportsStoreOutage(t *testing.T) {
	g := gin.New()
	RegisterSystemRoutes(g, pingFunc(func(context.Context) error { return errors.New("no primary") }), time.Now())

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"store":false`)
}
