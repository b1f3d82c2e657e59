package search

import (
	"strings"
	"unicode/utf8"

	"papalote/internal/model"
)

// DefaultSuggestionLimit is used when no positive limit is given.
const DefaultSuggestionLimit = 5

// minSuggestionQuery is the shortest query that produces suggestions.
const minSuggestionQuery = 2

// Suggestions returns distinct names, categories, makers, states, and
// materials matching query. Values starting with the query come before
// values that merely contain it.
func Suggestions(products []model.Product, query string, limit int) []string {
	q := Fold(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < minSuggestionQuery {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	seen := make(map[string]struct{})
	var prefix, contains []string

	for i := range products {
		for _, f := range fields {
			for _, v := range f.values(&products[i]) {
				v = strings.TrimSpace(v)
				key := Fold(v)
				if key == "" {
					continue
				}
				if _, ok := seen[key]; ok {
					continue
				}

				switch {
				case strings.HasPrefix(key, q):
					prefix = append(prefix, v)
				case strings.Contains(key, q):
					contains = append(contains, v)
				default:
					continue
				}
				seen[key] = struct{}{}
			}
		}
	}

	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		return []string{}
	}
	return out
}
