package recipe

import "strings"

// Filter returns the recipes whose title or any tag contains query,
// case-insensitively. An empty query matches everything. The input slice is
// never modified.
func Filter(list []*Recipe, query string) []*Recipe {
	q := strings.ToLower(query)
	out := make([]*Recipe, 0, len(list))
	for _, r := range list {
		if Matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether r matches the already lower-cased query.
func Matches(r *Recipe, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(r.Title), lowerQuery) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}
