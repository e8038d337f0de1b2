// internal/domain/catalog/filter.go
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOption selects the ordering applied after filtering
type SortOption string

const (
	SortRelevance SortOption = "relevance"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortName      SortOption = "name"
)

// FilterState captures the storefront's filter controls. It is derived
// entirely from user input and has no server-side counterpart.
type FilterState struct {
	Categories []string
	Genders    []string
	MaxPrice   *float64
	SearchText string
	SortBy     SortOption
}

// ApplyFilters returns the products matching the filter state, ordered per
// SortBy. Pure and stable: identical inputs always yield identical output
// ordering, and the input slice is never mutated. All filters are
// conjunctive.
func ApplyFilters(products []Product, state FilterState) []Product {
	categories := toSet(state.Categories)
	genders := toSet(state.Genders)
	search := strings.ToLower(strings.TrimSpace(state.SearchText))

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if !matchesSearch(&p, search) {
			continue
		}
		// An empty selected set means no restriction, not "match nothing".
		if len(categories) > 0 && !categories[strings.ToLower(p.Category)] {
			continue
		}
		if len(genders) > 0 && !genders[strings.ToLower(p.Gender)] {
			continue
		}
		if state.MaxPrice != nil && p.Price > *state.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, state.SortBy)
	return filtered
}

// matchesSearch reports whether any searchable field contains the needle.
// An empty needle matches everything.
func matchesSearch(p *Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle) ||
		strings.Contains(strings.ToLower(p.Gender), needle)
}

// sortProducts orders products in place. Relevance keeps the input order;
// it is not a ranking algorithm.
func sortProducts(products []Product, by SortOption) {
	switch by {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortName:
		collator := collate.New(language.English, collate.Loose)
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Name, products[j].Name) < 0
		})
	}
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}
