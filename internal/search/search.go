// Package search ranks catalogue products against free-text queries and
// keeps each shopper's recent searches.
package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"papalote/internal/model"

	"github.com/sahilm/fuzzy"
)

// Per-field weights applied to a term's match quality.
const (
	WeightName     = 10.0
	WeightCategory = 6.0
	WeightMaker    = 5.0
	WeightState    = 4.0
	WeightMaterial = 3.0
)

// Match quality of a single term against a field value.
const (
	matchExact     = 1.0
	matchPrefix    = 0.8
	matchSubstring = 0.5
	matchFuzzy     = 0.2
)

// minFuzzyTermLength keeps short terms from matching as loose subsequences.
const minFuzzyTermLength = 4

// Options narrows a search.
type Options struct {
	// Limit caps the number of results; zero or less means no limit.
	Limit int
	// MinScore drops results scoring below it.
	MinScore float64
}

// Result is a product with its relevance score.
type Result struct {
	Product model.Product `json:"product"`
	Score   float64       `json:"score"`
}

type field struct {
	weight float64
	values func(p *model.Product) []string
}

var fields = []field{
	{WeightName, func(p *model.Product) []string { return []string{p.Name} }},
	{WeightCategory, func(p *model.Product) []string { return []string{p.Category} }},
	{WeightMaker, func(p *model.Product) []string { return []string{p.Maker} }},
	{WeightState, func(p *model.Product) []string { return []string{p.State} }},
	{WeightMaterial, func(p *model.Product) []string { return p.Materials }},
}

// Products scores every product against query and returns the matches,
// highest score first. Products with equal scores keep their input order.
func Products(products []model.Product, query string, opts Options) []Result {
	terms := words(Fold(query))
	if len(products) == 0 || len(terms) == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(products))
	for i := range products {
		score := Score(&products[i], terms)
		if score <= 0 || score < opts.MinScore {
			continue
		}
		results = append(results, Result{Product: products[i], Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results
}

// Score sums, for each folded term, the best weighted match in every field.
func Score(p *model.Product, terms []string) float64 {
	var total float64
	for _, term := range terms {
		for _, f := range fields {
			best := 0.0
			for _, v := range f.values(p) {
				best = max(best, termMatch(Fold(v), term))
			}
			total += best * f.weight
		}
	}
	return total
}

// termMatch grades how well a folded term matches a folded value.
func termMatch(value, term string) float64 {
	if value == "" || term == "" {
		return 0
	}
	if value == term {
		return matchExact
	}

	ws := words(value)
	for _, w := range ws {
		if strings.HasPrefix(w, term) {
			return matchPrefix
		}
	}
	if strings.Contains(value, term) {
		return matchSubstring
	}
	if utf8.RuneCountInString(term) >= minFuzzyTermLength && len(fuzzy.Find(term, ws)) > 0 {
		return matchFuzzy
	}
	return 0
}

// MaxScore is the highest score a query with n terms can reach.
func MaxScore(n int) float64 {
	return float64(n) * matchExact * (WeightName + WeightCategory + WeightMaker + WeightState + WeightMaterial)
}
