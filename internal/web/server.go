package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/recipebox/recipebox/pkg/apiclient"
	"github.com/recipebox/recipebox/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"imageSrc": imageSrc,
	}).ParseFS(templateFS, "templates/*.html")
}

// imageSrc lets inline image data URLs through the template URL filter.
// Everything else goes through the normal escaping.
func imageSrc(s string) interface{} {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return s
}

// Server renders the recipe pages. It keeps no state between requests; every
// page is rebuilt from the API.
type Server struct {
	api          RecipeAPI
	demoFallback bool
}

func NewServer(api RecipeAPI, demoFallback bool) *Server {
	return &Server{api: api, demoFallback: demoFallback}
}

// ConfirmPage asks before deleting a recipe. From is "list" or "detail" and
// decides where the user lands afterwards.
type ConfirmPage struct {
	Recipe *recipe.Recipe
	From   string
	Query  string
	Error  string
}

// Back is the cancel target.
func (p *ConfirmPage) Back() string {
	if p.From == "list" {
		return listURL(p.Query, false)
	}
	return "/recipes/" + url.PathEscape(p.Recipe.ID)
}

// Register installs the templates and the page routes on r.
func (s *Server) Register(r *gin.Engine) error {
	tmpl, err := LoadTemplates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "healthy") })
	r.GET("/", s.list)
	r.GET("/recipes/new", s.newForm)
	r.POST("/recipes", s.create)
	r.GET("/recipes/:id", s.detail)
	r.POST("/recipes/:id", s.update)
	r.GET("/recipes/:id/edit", s.editForm)
	r.GET("/recipes/:id/delete", s.confirmDelete)
	r.POST("/recipes/:id/delete", s.delete)
	return nil
}

func render(c *gin.Context, status int, name, title string, page interface{}) {
	c.HTML(status, name, gin.H{"Title": title, "Page": page})
}

func (s *Server) list(c *gin.Context) {
	page := NewListPage()
	page.Query = c.Query("q")
	if c.Query("deleted") != "" {
		page.Notice = DeletedNotice
	}
	page.Load(c.Request.Context(), s.api, s.demoFallback)
	status := http.StatusOK
	if page.State == ListError {
		status = http.StatusBadGateway
	}
	render(c, status, "list.html", "Recipes", page)
}

func (s *Server) detail(c *gin.Context) {
	page := NewDetailPage()
	page.Load(c.Request.Context(), s.api, c.Param("id"))
	renderDetail(c, page)
}

func renderDetail(c *gin.Context, page *DetailPage) {
	switch page.State {
	case DetailLoaded:
		render(c, http.StatusOK, "detail.html", page.Recipe.Title, page)
	case DetailNotFound:
		render(c, http.StatusNotFound, "detail.html", "Recipe not found", page)
	default:
		render(c, http.StatusBadGateway, "detail.html", "Error", page)
	}
}

func (s *Server) newForm(c *gin.Context) {
	render(c, http.StatusOK, "form.html", "New recipe", NewCreateForm())
}

func (s *Server) editForm(c *gin.Context) {
	page := NewEditForm(c.Param("id"))
	page.Prefill(c.Request.Context(), s.api)
	render(c, formStatus(page), "form.html", "Edit recipe", page)
}

func formStatus(page *FormPage) int {
	switch page.State {
	case FormNotFound:
		return http.StatusNotFound
	case FormLoadError:
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func (s *Server) create(c *gin.Context) {
	s.submit(c, NewCreateForm(), "New recipe")
}

func (s *Server) update(c *gin.Context) {
	s.submit(c, NewEditForm(c.Param("id")), "Edit recipe")
}

func (s *Server) submit(c *gin.Context, page *FormPage, title string) {
	ctx := c.Request.Context()
	page.Values = FormValues{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Image:       c.PostForm("image"),
		Ingredients: c.PostForm("ingredients"),
		Steps:       c.PostForm("steps"),
		Tags:        c.PostForm("tags"),
	}

	if fh, err := c.FormFile("imageFile"); err == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			page.Error = err.Error()
			render(c, http.StatusBadRequest, "form.html", title, page)
			return
		}
		err = page.AttachImage(ctx, s.api, fh.Filename, f)
		f.Close()
		if err != nil {
			logger.Warnf("image upload %q: %v", fh.Filename, err)
			render(c, errorStatus(err), "form.html", title, page)
			return
		}
	}

	saved, err := page.Submit(ctx, s.api)
	if err != nil {
		render(c, errorStatus(err), "form.html", title, page)
		return
	}
	c.Redirect(http.StatusSeeOther, "/recipes/"+url.PathEscape(saved.ID))
}

// errorStatus picks the status for a page re-rendered after a failed action.
func errorStatus(err error) int {
	if errors.Is(err, ErrRequiredFields) {
		return http.StatusUnprocessableEntity
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func (s *Server) confirmDelete(c *gin.Context) {
	page := NewDetailPage()
	page.Load(c.Request.Context(), s.api, c.Param("id"))
	if page.State != DetailLoaded {
		renderDetail(c, page)
		return
	}
	render(c, http.StatusOK, "confirm.html", "Delete recipe", &ConfirmPage{
		Recipe: page.Recipe,
		From:   c.DefaultQuery("from", "detail"),
		Query:  c.Query("q"),
	})
}

func (s *Server) delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	from := c.PostForm("from")
	q := c.PostForm("q")

	if _, err := s.api.Delete(ctx, id); err != nil {
		s.deleteFailed(c, id, from, q, err)
		return
	}
	if from == "list" {
		c.Redirect(http.StatusSeeOther, listURL(q, true))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// listURL is the list page for query q, optionally flagged after a delete.
func listURL(q string, deleted bool) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if deleted {
		v.Set("deleted", "1")
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func (s *Server) deleteFailed(c *gin.Context, id, from, q string, err error) {
	logger.Warnf("delete recipe %s: %v", id, err)
	page := NewDetailPage()
	page.Load(c.Request.Context(), s.api, id)
	if page.State != DetailLoaded {
		renderDetail(c, page)
		return
	}
	render(c, errorStatus(err), "confirm.html", "Delete recipe", &ConfirmPage{
		Recipe: page.Recipe,
		From:   from,
		Query:  q,
		Error:  err.Error(),
	})
}
