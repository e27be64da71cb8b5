package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/recipebox/recipebox/internal/recipe"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryEntry struct {
	rec *recipe.Recipe
	seq uint64
}

// MemoryRepo is an in-memory Repository used for local runs and tests. IDs
// have the same shape as the Mongo store so clients cannot tell them apart.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*memoryEntry
	seq   uint64
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*memoryEntry), now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *MemoryRepo) WithClock(now func() time.Time) *MemoryRepo {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func (m *MemoryRepo) timestamp() time.Time {
	return m.now().UTC().Truncate(time.Millisecond)
}

func (m *MemoryRepo) Create(_ context.Context, in recipe.Input) (*recipe.Recipe, error) {
	if err := checkSchema(in); err != nil {
		return nil, err
	}
	in = in.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.timestamp()
	rec := &recipe.Recipe{
		ID:          primitive.NewObjectID().Hex(),
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.seq++
	m.store[rec.ID] = &memoryEntry{rec: rec, seq: m.seq}
	return rec.Clone(), nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*recipe.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.store[id]; ok {
		return e.rec.Clone(), nil
	}
	return nil, ErrNotFound
}

// List returns all recipes, newest first.
func (m *MemoryRepo) List(_ context.Context) ([]*recipe.Recipe, error) {
	m.mu.RLock()
	entries := make([]memoryEntry, 0, len(m.store))
	for _, e := range m.store {
		entries = append(entries, memoryEntry{rec: e.rec.Clone(), seq: e.seq})
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
			return a.rec.CreatedAt.After(b.rec.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*recipe.Recipe, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.rec)
	}
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, id string, in recipe.Input) (*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := checkSchema(in); err != nil {
		return nil, err
	}
	in = in.Normalize()
	// stored records are never mutated in place; readers may still hold them
	e.rec = &recipe.Recipe{
		ID:          e.rec.ID,
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		Tags:        in.Tags,
		CreatedAt:   e.rec.CreatedAt,
		UpdatedAt:   m.timestamp(),
	}
	return e.rec.Clone(), nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }
