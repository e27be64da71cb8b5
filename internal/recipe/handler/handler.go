package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/recipebox/recipebox/internal/recipe/service"
	"github.com/recipebox/recipebox/pkg/logger"
)

const (
	msgNotFound      = "Recipe not found"
	msgMissingFields = "Missing required fields"
	msgInvalidBody   = "Invalid request body"
	msgDeleted       = "Recipe deleted"
)

// RegisterRecipeRoutes mounts the recipe CRUD endpoints under /api/recipes.
func RegisterRecipeRoutes(r gin.IRouter, svc service.Service) {
	h := &recipeHandler{svc: svc}
	g := r.Group("/api/recipes")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type recipeHandler struct {
	svc service.Service
}

func (h *recipeHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch recipes", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *recipeHandler) get(c *gin.Context) {
	r, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case err != nil:
		fail(c, http.StatusInternalServerError, "Failed to fetch recipe", err)
	default:
		c.JSON(http.StatusOK, r)
	}
}

func (h *recipeHandler) create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	r, err := h.svc.Create(c.Request.Context(), in)
	switch {
	case errors.Is(err, service.ErrValidation):
		logger.Debugf("create rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": msgMissingFields})
	case err != nil:
		fail(c, http.StatusInternalServerError, "Failed to create recipe", err)
	default:
		c.JSON(http.StatusCreated, r)
	}
}

func (h *recipeHandler) update(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	r, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case err != nil:
		fail(c, http.StatusInternalServerError, "Failed to update recipe", err)
	default:
		c.JSON(http.StatusOK, r)
	}
}

func (h *recipeHandler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case err != nil:
		fail(c, http.StatusInternalServerError, "Failed to delete recipe", err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
	}
}

// bindInput decodes the JSON body. An empty body decodes to an empty Input so
// that create reports missing fields rather than a parse error.
func bindInput(c *gin.Context) (recipe.Input, bool) {
	var in recipe.Input
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return recipe.Input{}, false
	}
	return in, true
}

// fail logs the underlying error and answers with a generic message only.
func fail(c *gin.Context, status int, msg string, err error) {
	logger.Errorf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, msg, err)
	c.JSON(status, gin.H{"message": msg})
}
