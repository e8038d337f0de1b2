package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Red Tee", Description: "Classic cotton tee", Category: "shirts", Gender: "men", Price: 25.00},
		{ID: "p2", Name: "Blue Jacket", Description: "Water resistant shell", Category: "jackets", Gender: "women", Price: 80.00},
		{ID: "p3", Name: "Green Hoodie", Description: "Fleece lined", Category: "hoodies", Gender: "men", Price: 55.00},
		{ID: "p4", Name: "Free Sticker", Description: "Promo giveaway", Category: "accessories", Gender: "unisex", Price: 0},
	}
}

func TestApplyFiltersNoOpKeepsInputOrder(t *testing.T) {
	products := sampleProducts()

	result := ApplyFilters(products, FilterState{})

	require.Len(t, result, len(products))
	for i := range products {
		assert.Equal(t, products[i].ID, result[i].ID)
	}
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	products := sampleProducts()

	ApplyFilters(products, FilterState{SortBy: SortPriceHigh})

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p4", products[3].ID)
}

func TestApplyFiltersMaxPrice(t *testing.T) {
	max := 50.0
	result := ApplyFilters(sampleProducts(), FilterState{MaxPrice: &max})

	ids := productIDs(result)
	assert.Contains(t, ids, "p1")
	assert.NotContains(t, ids, "p2")
}

func TestApplyFiltersMaxPriceZeroMeansFreeOnly(t *testing.T) {
	// A zero ceiling is a real ceiling, not an unset filter.
	max := 0.0
	result := ApplyFilters(sampleProducts(), FilterState{MaxPrice: &max})

	require.Len(t, result, 1)
	assert.Equal(t, "p4", result[0].ID)
}

func TestApplyFiltersNilMaxPriceMeansNoCeiling(t *testing.T) {
	result := ApplyFilters(sampleProducts(), FilterState{MaxPrice: nil})
	assert.Len(t, result, 4)
}

func TestApplyFiltersCategoryCaseInsensitive(t *testing.T) {
	result := ApplyFilters(sampleProducts(), FilterState{Categories: []string{"SHIRTS"}})

	require.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].ID)
}

func TestApplyFiltersEmptyCategorySetMeansNoRestriction(t *testing.T) {
	result := ApplyFilters(sampleProducts(), FilterState{Categories: []string{}})
	assert.Len(t, result, 4)
}

func TestApplyFiltersGender(t *testing.T) {
	result := ApplyFilters(sampleProducts(), FilterState{Genders: []string{"men"}})

	ids := productIDs(result)
	assert.ElementsMatch(t, []string{"p1", "p3"}, ids)
}

func TestApplyFiltersConjunctive(t *testing.T) {
	max := 60.0
	result := ApplyFilters(sampleProducts(), FilterState{
		Genders:  []string{"men"},
		MaxPrice: &max,
	})

	ids := productIDs(result)
	assert.ElementsMatch(t, []string{"p1", "p3"}, ids)

	max = 30.0
	result = ApplyFilters(sampleProducts(), FilterState{
		Genders:  []string{"men"},
		MaxPrice: &max,
	})
	require.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].ID)
}

func TestApplyFiltersSearchMatchesAnyField(t *testing.T) {
	byName := ApplyFilters(sampleProducts(), FilterState{SearchText: "jacket"})
	require.Len(t, byName, 1)
	assert.Equal(t, "p2", byName[0].ID)

	byDescription := ApplyFilters(sampleProducts(), FilterState{SearchText: "fleece"})
	require.Len(t, byDescription, 1)
	assert.Equal(t, "p3", byDescription[0].ID)

	byGender := ApplyFilters(sampleProducts(), FilterState{SearchText: "unisex"})
	require.Len(t, byGender, 1)
	assert.Equal(t, "p4", byGender[0].ID)
}

func TestApplyFiltersSearchCaseInsensitive(t *testing.T) {
	result := ApplyFilters(sampleProducts(), FilterState{SearchText: "  RED tEe "})
	require.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].ID)
}

func TestSortPriceLowIsReverseOfPriceHigh(t *testing.T) {
	// Prices are distinct, so the two orderings must mirror each other.
	products := sampleProducts()

	low := ApplyFilters(products, FilterState{SortBy: SortPriceLow})
	high := ApplyFilters(products, FilterState{SortBy: SortPriceHigh})

	require.Len(t, low, len(high))
	for i := range low {
		assert.Equal(t, low[i].ID, high[len(high)-1-i].ID)
	}
}

func TestSortPriceLow(t *testing.T) {
	result := ApplyFilters(sampleProducts(), FilterState{SortBy: SortPriceLow})

	require.Len(t, result, 4)
	for i := 1; i < len(result); i++ {
		assert.LessOrEqual(t, result[i-1].Price, result[i].Price)
	}
}

func TestSortName(t *testing.T) {
	result := ApplyFilters(sampleProducts(), FilterState{SortBy: SortName})

	assert.Equal(t, []string{"p2", "p4", "p3", "p1"}, productIDs(result))
}

func TestSortRelevanceKeepsInputOrder(t *testing.T) {
	products := sampleProducts()
	result := ApplyFilters(products, FilterState{SortBy: SortRelevance})

	assert.Equal(t, productIDs(products), productIDs(result))
}

func productIDs(products []Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
