package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/advocacia_site/internal/catalog"
)

func TestAllReturnsEveryAreaExactlyOnce(t *testing.T) {
	areas := catalog.All()
	require.Len(t, areas, catalog.Count())

	seenIdentifiers := make(map[string]struct{}, len(areas))
	for _, area := range areas {
		require.NotEmpty(t, area.ID)
		require.NotEmpty(t, area.Name)
		require.NotEmpty(t, area.Description)
		require.NotEmpty(t, area.Category)
		_, duplicated := seenIdentifiers[area.ID]
		require.False(t, duplicated, "duplicate area id %s", area.ID)
		seenIdentifiers[area.ID] = struct{}{}
	}
}

func TestCategoriesAreFixedNineValues(t *testing.T) {
	require.Len(t, catalog.Categories(), 9)
}

func TestEveryAreaBelongsToAKnownCategory(t *testing.T) {
	knownCategories := make(map[string]struct{})
	for _, category := range catalog.Categories() {
		knownCategories[category] = struct{}{}
	}
	for _, area := range catalog.All() {
		_, known := knownCategories[area.Category]
		require.True(t, known, "area %s has unknown category %s", area.ID, area.Category)
	}
}

func TestByCategoryFiltersAndEmptyMeansAll(t *testing.T) {
	laborAreas := catalog.ByCategory(catalog.CategoryTrabalhista)
	require.NotEmpty(t, laborAreas)
	for _, area := range laborAreas {
		require.Equal(t, catalog.CategoryTrabalhista, area.Category)
	}

	require.Len(t, catalog.ByCategory(""), catalog.Count())
	require.Empty(t, catalog.ByCategory("Inexistente"))
}

func TestByID(t *testing.T) {
	area, found := catalog.ByID("civil-familia")
	require.True(t, found)
	require.Equal(t, "Direito de Família", area.Name)

	_, found = catalog.ByID("nao-existe")
	require.False(t, found)
}

func TestAllReturnsACopy(t *testing.T) {
	areas := catalog.All()
	areas[0].Name = "mutated"
	require.NotEqual(t, "mutated", catalog.All()[0].Name)
}
