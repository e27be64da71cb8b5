package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/recipebox/recipebox/internal/recipe/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teaJSON = `{"title":"Tea","description":"Hot drink","ingredients":["water","tea leaves"],"steps":["boil","steep"]}`

func newRouter(svc service.Service) *gin.Engine {
	g := gin.New()
	RegisterRecipeRoutes(g, svc)
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["message"]
}

func TestRecipeHandler_TeaLifecycle(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodPost, "/api/recipes", teaJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	var created recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, []string{}, created.Tags)

	w = do(g, http.MethodGet, "/api/recipes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Tea", got.Title)
	assert.Equal(t, "Hot drink", got.Description)
	assert.Equal(t, []string{"water", "tea leaves"}, got.Ingredients)
	assert.Equal(t, []string{"boil", "steep"}, got.Steps)
	assert.Empty(t, got.Image)

	w = do(g, http.MethodDelete, "/api/recipes/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recipe deleted", message(t, w))

	w = do(g, http.MethodGet, "/api/recipes/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Recipe not found", message(t, w))
}

func TestRecipeHandler_CreateMissingFields(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	bodies := []string{
		`{"description":"d","ingredients":[],"steps":[]}`,
		`{"title":"t","ingredients":[],"steps":[]}`,
		`{"title":"t","description":"d","steps":[]}`,
		`{"title":"t","description":"d","ingredients":[]}`,
		`{"title":"","description":"d","ingredients":[],"steps":[]}`,
		`{}`,
		"",
	}
	for _, b := range bodies {
		w := do(g, http.MethodPost, "/api/recipes", b)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", b)
		require.Equal(t, "Missing required fields", message(t, w))
	}

	w := do(g, http.MethodGet, "/api/recipes", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestRecipeHandler_InvalidBody(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	w := do(g, http.MethodPost, "/api/recipes", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid request body", message(t, w))
}

func TestRecipeHandler_UnknownID(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, teaJSON},
		{http.MethodDelete, ""},
	} {
		w := do(g, tc.method, "/api/recipes/64b7f0c2a1b2c3d4e5f60718", tc.body)
		require.Equal(t, http.StatusNotFound, w.Code, tc.method)
		require.Equal(t, "Recipe not found", message(t, w))
	}
}

func TestRecipeHandler_Update(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	w := do(g, http.MethodPost, "/api/recipes", teaJSON)
	require.Equal(t, http.StatusCreated, w.Code)
	var created recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body := `{"title":"Iced Tea","description":"Cold","image":"https://example.com/i.png","ingredients":["tea","ice"],"steps":["brew","chill"],"tags":["summer"]}`
	w = do(g, http.MethodPut, "/api/recipes/"+created.ID, body)
	require.Equal(t, http.StatusOK, w.Code)
	var updated recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Iced Tea", updated.Title)
	assert.Equal(t, []string{"summer"}, updated.Tags)
	assert.Equal(t, "https://example.com/i.png", updated.Image)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// schema violations on update are store failures, not validation errors
	w = do(g, http.MethodPut, "/api/recipes/"+created.ID, `{"title":"x"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Failed to update recipe", message(t, w))
}

func TestRecipeHandler_ListNewestFirst(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	for _, title := range []string{"first", "second"} {
		body := strings.Replace(teaJSON, `"Tea"`, `"`+title+`"`, 1)
		require.Equal(t, http.StatusCreated, do(g, http.MethodPost, "/api/recipes", body).Code)
	}
	w := do(g, http.MethodGet, "/api/recipes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []recipe.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)
}

type brokenService struct{ err error }

func (b brokenService) List(context.Context) ([]*recipe.Recipe, error) { return nil, b.err }
func (b brokenService) Get(context.Context, string) (*recipe.Recipe, error) {
	return nil, b.err
}
func (b brokenService) Create(context.Context, recipe.Input) (*recipe.Recipe, error) {
	return nil, b.err
}
func (b brokenService) Update(context.Context, string, recipe.Input) (*recipe.Recipe, error) {
	return nil, b.err
}
func (b brokenService) Delete(context.Context, string) error { return b.err }
func (b brokenService) Ping(context.Context) error          { return b.err }

func TestRecipeHandler_StoreFailures(t *testing.T) {
	g := newRouter(brokenService{err: errors.New("connection reset")})
	cases := []struct {
		method, path, body, msg string
	}{
		{http.MethodGet, "/api/recipes", "", "Failed to fetch recipes"},
		{http.MethodGet, "/api/recipes/abc", "", "Failed to fetch recipe"},
		{http.MethodPost, "/api/recipes", teaJSON, "Failed to create recipe"},
		{http.MethodPut, "/api/recipes/abc", teaJSON, "Failed to update recipe"},
		{http.MethodDelete, "/api/recipes/abc", "", "Failed to delete recipe"},
	}
	for _, tc := range cases {
		w := do(g, tc.method, tc.path, tc.body)
		require.Equal(t, http.StatusInternalServerError, w.Code, tc.path)
		require.Equal(t, tc.msg, message(t, w))
		require.NotContains(t, w.Body.String(), "connection reset")
	}
}
