package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/recipebox/recipebox/internal/recipe/repository"
	"github.com/recipebox/recipebox/pkg/metrics"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	repository.Repository
	err error
}

func (f *failingRepo) List(context.Context) ([]*recipe.Recipe, error) { return nil, f.err }

func (f *failingRepo) Create(context.Context, recipe.Input) (*recipe.Recipe, error) {
	return nil, f.err
}

func tea() recipe.Input {
	return recipe.Input{
		Title:       "Tea",
		Description: "Hot drink",
		Ingredients: []string{"water", "tea leaves"},
		Steps:       []string{"boil", "steep"},
	}
}

func TestCreateRequiresFields(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	for _, in := range []recipe.Input{
		{Description: "d", Ingredients: []string{}, Steps: []string{}},
		{Title: "t", Ingredients: []string{}, Steps: []string{}},
		{Title: "t", Description: "d", Steps: []string{}},
		{Title: "t", Description: "d", Ingredients: []string{}},
	} {
		_, err := svc.Create(ctx, in)
		require.ErrorIs(t, err, ErrValidation)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list, "rejected creates must not persist anything")
}

func TestCreateAcceptsEmptyLists(t *testing.T) {
	svc := NewMemoryService()
	in := tea()
	in.Ingredients = []string{}
	r, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, r.Ingredients)
}

func TestNotFoundTranslation(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, "missing", tea())
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
}

func TestUpdateSchemaViolationIsInternal(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	r, err := svc.Create(ctx, tea())
	require.NoError(t, err)

	_, err = svc.Update(ctx, r.ID, recipe.Input{Title: "only a title"})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrValidation))
	require.False(t, errors.Is(err, ErrNotFound))
	require.ErrorIs(t, err, repository.ErrSchema)
}

func TestStoreErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	svc := New(&failingRepo{err: boom})
	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = svc.Create(context.Background(), tea())
	require.ErrorIs(t, err, boom)
}

func TestOperationMetrics(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	before := testutil.ToFloat64(metrics.RecipeOperations.WithLabelValues("delete", "not_found"))
	_ = svc.Delete(ctx, "missing")
	after := testutil.ToFloat64(metrics.RecipeOperations.WithLabelValues("delete", "not_found"))
	require.Equal(t, before+1, after)
}
