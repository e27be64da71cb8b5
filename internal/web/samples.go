package web

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/recipebox/recipebox/internal/recipe"
)

//go:embed samples/recipes.json
var sampleJSON []byte

var samples []*recipe.Recipe

func init() {
	if err := json.Unmarshal(sampleJSON, &samples); err != nil {
		panic(fmt.Sprintf("web: bad sample recipes: %v", err))
	}
}

// SampleRecipes returns a fresh copy of the bundled demo recipes.
func SampleRecipes() []*recipe.Recipe {
	out := make([]*recipe.Recipe, len(samples))
	for i, r := range samples {
		out[i] = r.Clone()
	}
	return out
}

// SampleInputs returns the demo recipes as create payloads.
func SampleInputs() []recipe.Input {
	out := make([]recipe.Input, len(samples))
	for i, r := range samples {
		out[i] = recipe.InputOf(r)
	}
	return out
}
