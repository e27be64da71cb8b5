package web

import (
	"context"
	"errors"
	"io"

	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/recipebox/recipebox/pkg/apiclient"
	"github.com/recipebox/recipebox/pkg/logger"
)

// RecipeAPI is the subset of the API client the UI depends on.
// *apiclient.Client implements it.
type RecipeAPI interface {
	List(ctx context.Context) ([]*recipe.Recipe, error)
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
	Create(ctx context.Context, in recipe.Input) (*recipe.Recipe, error)
	Update(ctx context.Context, id string, in recipe.Input) (*recipe.Recipe, error)
	Delete(ctx context.Context, id string) (string, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

var _ RecipeAPI = (*apiclient.Client)(nil)

type ListState int

const (
	ListLoading ListState = iota
	ListLoaded
	ListEmpty
	ListError
)

func (s ListState) String() string {
	switch s {
	case ListLoaded:
		return "loaded"
	case ListEmpty:
		return "empty"
	case ListError:
		return "error"
	}
	return "loading"
}

// ListPage holds the full set of recipes and the subset matching Query.
type ListPage struct {
	State    ListState
	All      []*recipe.Recipe
	Filtered []*recipe.Recipe
	Query    string
	Demo     bool
	Error    string
	Notice   string
}

// DeletedNotice is shown on the list after a recipe was deleted from it.
const DeletedNotice = "Recipe deleted."

func NewListPage() *ListPage {
	return &ListPage{State: ListLoading}
}

// Load fetches every recipe. When the API is unreachable and demoFallback is
// set, the bundled sample recipes are shown instead and Demo is raised.
func (p *ListPage) Load(ctx context.Context, api RecipeAPI, demoFallback bool) {
	list, err := api.List(ctx)
	if err != nil {
		if !demoFallback {
			logger.Errorf("list recipes: %v", err)
			p.All, p.Filtered = nil, nil
			p.Error = err.Error()
			p.State = ListError
			return
		}
		logger.Warnf("list recipes failed, showing demo data: %v", err)
		list = SampleRecipes()
		p.Demo = true
	}
	p.All = list
	p.Search(p.Query)
}

// Search narrows Filtered to the recipes whose title or tags contain q.
func (p *ListPage) Search(q string) {
	p.Query = q
	if p.State == ListError {
		return
	}
	p.Filtered = recipe.Filter(p.All, q)
	p.refresh()
}

func (p *ListPage) refresh() {
	if len(p.Filtered) == 0 {
		p.State = ListEmpty
		return
	}
	p.State = ListLoaded
}

type DetailState int

const (
	DetailLoading DetailState = iota
	DetailLoaded
	DetailError
	DetailNotFound
)

func (s DetailState) String() string {
	switch s {
	case DetailLoaded:
		return "loaded"
	case DetailError:
		return "error"
	case DetailNotFound:
		return "not-found"
	}
	return "loading"
}

type DetailPage struct {
	State  DetailState
	Recipe *recipe.Recipe
	Error  string
}

func NewDetailPage() *DetailPage {
	return &DetailPage{State: DetailLoading}
}

func (p *DetailPage) Load(ctx context.Context, api RecipeAPI, id string) {
	r, err := api.Get(ctx, id)
	switch {
	case err == nil:
		p.Recipe = r
		p.State = DetailLoaded
	case apiclient.IsNotFound(err):
		p.State = DetailNotFound
	default:
		logger.Errorf("get recipe %s: %v", id, err)
		p.Error = err.Error()
		p.State = DetailError
	}
}

type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

type FormState int

const (
	FormReady FormState = iota
	FormNotFound
	FormLoadError
)

func (s FormState) String() string {
	switch s {
	case FormNotFound:
		return "not-found"
	case FormLoadError:
		return "error"
	}
	return "ready"
}

// FormPage backs both the create and the edit form.
type FormPage struct {
	Mode   FormMode
	State  FormState
	ID     string
	Values FormValues
	Error  string
}

// Editing reports whether the form updates an existing recipe.
func (p *FormPage) Editing() bool { return p.Mode == FormEdit }

func NewCreateForm() *FormPage {
	return &FormPage{Mode: FormCreate}
}

func NewEditForm(id string) *FormPage {
	return &FormPage{Mode: FormEdit, ID: id}
}

// Prefill loads the recipe being edited into the form fields.
func (p *FormPage) Prefill(ctx context.Context, api RecipeAPI) {
	r, err := api.Get(ctx, p.ID)
	switch {
	case err == nil:
		p.Values = FormValuesFrom(r)
		p.State = FormReady
	case apiclient.IsNotFound(err):
		p.State = FormNotFound
	default:
		logger.Errorf("prefill recipe %s: %v", p.ID, err)
		p.Error = err.Error()
		p.State = FormLoadError
	}
}

// AttachImage uploads an image file and points the form at the stored copy.
func (p *FormPage) AttachImage(ctx context.Context, api RecipeAPI, filename string, r io.Reader) error {
	url, err := api.UploadImage(ctx, filename, r)
	if err != nil {
		p.Error = err.Error()
		return err
	}
	p.Values.Image = url
	return nil
}

// Submit validates the form and saves it. On failure Error carries the
// message to render next to the form.
func (p *FormPage) Submit(ctx context.Context, api RecipeAPI) (*recipe.Recipe, error) {
	if err := p.Values.Validate(); err != nil {
		p.Error = RequiredFieldsMessage
		return nil, err
	}
	var (
		saved *recipe.Recipe
		err   error
	)
	if p.Mode == FormEdit {
		saved, err = api.Update(ctx, p.ID, p.Values.Input())
	} else {
		saved, err = api.Create(ctx, p.Values.Input())
	}
	if err != nil {
		var apiErr *apiclient.Error
		if !errors.As(err, &apiErr) {
			logger.Errorf("save recipe: %v", err)
		}
		p.Error = err.Error()
		return nil, err
	}
	p.Error = ""
	return saved, nil
}
