package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/recipebox/recipebox/internal/recipe"
)

var (
	ErrNotFound = errors.New("recipe not found")
	// ErrSchema is returned when a write would store a record that violates
	// the collection schema.
	ErrSchema = errors.New("recipe schema violation")
)

// Repository is the persistence contract shared by the memory and Mongo stores.
type Repository interface {
	List(ctx context.Context) ([]*recipe.Recipe, error)
	Get(ctx context.Context, id string) (*recipe.Recipe, error)
	Create(ctx context.Context, in recipe.Input) (*recipe.Recipe, error)
	Update(ctx context.Context, id string, in recipe.Input) (*recipe.Recipe, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// checkSchema mirrors the collection schema: title and description are
// required strings, ingredients and steps are required lists.
func checkSchema(in recipe.Input) error {
	var bad []string
	if in.Title == "" {
		bad = append(bad, "title")
	}
	if in.Description == "" {
		bad = append(bad, "description")
	}
	if in.Ingredients == nil {
		bad = append(bad, "ingredients")
	}
	if in.Steps == nil {
		bad = append(bad, "steps")
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s required", ErrSchema, strings.Join(bad, ", "))
	}
	return nil
}
