package recipe

import "time"

// Recipe is the persisted recipe record. ID and the timestamps are owned by the
// store; the remaining fields are replaced wholesale on update.
type Recipe struct {
	ID          string    `json:"id" bson:"-"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Ingredients []string  `json:"ingredients" bson:"ingredients"`
	Steps       []string  `json:"steps" bson:"steps"`
	Tags        []string  `json:"tags" bson:"tags"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Input is the client-writable part of a Recipe, used for create and update.
type Input struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty"`
	Ingredients []string `json:"ingredients" yaml:"ingredients"`
	Steps       []string `json:"steps" yaml:"steps"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Missing returns the names of required fields that are absent. Empty strings
// count as absent; an empty but present list does not.
func (in Input) Missing() []string {
	var out []string
	if in.Title == "" {
		out = append(out, "title")
	}
	if in.Description == "" {
		out = append(out, "description")
	}
	if in.Ingredients == nil {
		out = append(out, "ingredients")
	}
	if in.Steps == nil {
		out = append(out, "steps")
	}
	return out
}

// Normalize returns a copy with nil lists replaced by empty ones and the
// slices detached from the caller's backing arrays.
func (in Input) Normalize() Input {
	in.Ingredients = cloneStrings(in.Ingredients)
	in.Steps = cloneStrings(in.Steps)
	in.Tags = cloneStrings(in.Tags)
	return in
}

// InputOf extracts the editable fields of r.
func InputOf(r *Recipe) Input {
	return Input{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Ingredients: cloneStrings(r.Ingredients),
		Steps:       cloneStrings(r.Steps),
		Tags:        cloneStrings(r.Tags),
	}
}

// Clone returns a deep copy of r.
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = cloneStrings(r.Ingredients)
	c.Steps = cloneStrings(r.Steps)
	c.Tags = cloneStrings(r.Tags)
	return &c
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
