package web

import (
	"errors"
	"strings"

	"github.com/recipebox/recipebox/internal/recipe"
)

// RequiredFieldsMessage is shown next to a form submitted incomplete.
const RequiredFieldsMessage = "Please fill out all required fields."

// ErrRequiredFields reports a form missing title, description, ingredients or steps.
var ErrRequiredFields = errors.New("required fields missing")

// FormValues is the raw text of the recipe form. Ingredients and steps hold
// one entry per line, tags are comma separated.
type FormValues struct {
	Title       string
	Description string
	Image       string
	Ingredients string
	Steps       string
	Tags        string
}

// ParseLines splits newline-delimited text, trims each line and drops empty ones.
func ParseLines(text string) []string {
	return splitTrim(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// ParseTags splits comma-delimited text, trims each tag and drops empty ones.
func ParseTags(text string) []string {
	return splitTrim(text, ",")
}

func splitTrim(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FormValuesFrom prefills the form from an existing recipe.
func FormValuesFrom(r *recipe.Recipe) FormValues {
	return FormValues{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Ingredients: strings.Join(r.Ingredients, "\n"),
		Steps:       strings.Join(r.Steps, "\n"),
		Tags:        strings.Join(r.Tags, ", "),
	}
}

// Validate requires title, description, ingredients and steps to contain text.
func (v FormValues) Validate() error {
	for _, s := range []string{v.Title, v.Description, v.Ingredients, v.Steps} {
		if strings.TrimSpace(s) == "" {
			return ErrRequiredFields
		}
	}
	return nil
}

// Input converts validated form text into an API payload.
func (v FormValues) Input() recipe.Input {
	return recipe.Input{
		Title:       strings.TrimSpace(v.Title),
		Description: strings.TrimSpace(v.Description),
		Image:       strings.TrimSpace(v.Image),
		Ingredients: ParseLines(v.Ingredients),
		Steps:       ParseLines(v.Steps),
		Tags:        ParseTags(v.Tags),
	}
}
