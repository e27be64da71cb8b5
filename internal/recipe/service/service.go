package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/recipebox/recipebox/internal/recipe/repository"
	"github.com/recipebox/recipebox/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Service defines the recipe operations used by the handler layer.
type Service interface {
	List(ctx context.Context) ([]*recipe.Recipe, error)
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
	Create(ctx context.Context, in recipe.Input) (*recipe.Recipe, error)
	Update(ctx context.Context, id string, in recipe.Input) (*recipe.Recipe, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// New returns a Service over an arbitrary repository.
func New(repo repository.Repository) Service {
	return &recipeService{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(ctx context.Context, col *mongo.Collection) (Service, error) {
	repo := repository.NewMongoRepo(col)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return New(repo), nil
}

type recipeService struct {
	repo repository.Repository
}

func (s *recipeService) List(ctx context.Context) ([]*recipe.Recipe, error) {
	list, err := s.repo.List(ctx)
	observe("list", err)
	return list, err
}

func (s *recipeService) Get(ctx context.Context, id string) (*recipe.Recipe, error) {
	r, err := s.repo.Get(ctx, id)
	err = translate(err)
	observe("get", err)
	return r, err
}

// Create enforces required-field presence before anything reaches the store.
func (s *recipeService) Create(ctx context.Context, in recipe.Input) (*recipe.Recipe, error) {
	if missing := in.Missing(); len(missing) > 0 {
		err := fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
		observe("create", err)
		return nil, err
	}
	r, err := s.repo.Create(ctx, in)
	observe("create", err)
	return r, err
}

// Update does not re-check required fields; the store schema decides.
func (s *recipeService) Update(ctx context.Context, id string, in recipe.Input) (*recipe.Recipe, error) {
	r, err := s.repo.Update(ctx, id, in)
	err = translate(err)
	observe("update", err)
	return r, err
}

func (s *recipeService) Delete(ctx context.Context, id string) error {
	err := translate(s.repo.Delete(ctx, id))
	observe("delete", err)
	return err
}

func (s *recipeService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func observe(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrValidation):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metrics.RecipeOperations.WithLabelValues(op, outcome).Inc()
}
