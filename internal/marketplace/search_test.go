package marketplace

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Chaturved5/estate-portal/internal/gateway"
	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
)

func searchFixture(t *testing.T) *Container {
	t.Helper()
	c := NewContainer(gateway.New(""), store.NewWithFs(afero.NewMemMapFs(), "/state"))
	c.mu.Lock()
	c.properties = []models.Property{
		{ID: "p1", Title: "Marine Drive Flat", City: "Mumbai", Type: "apartment", Price: 4.5 * CroreUnit, Bedrooms: 3},
		{ID: "p2", Title: "Andheri Flat", City: "Mumbai", Type: "apartment", Price: 1.8 * CroreUnit, Bedrooms: 2},
		{ID: "p3", Title: "Whitefield Villa", City: "Bangalore", Type: "villa", Price: 3.2 * CroreUnit, Bedrooms: 4},
		{ID: "p4", Title: "OMR Plot", City: "Chennai", Type: "plot", Price: 2.4 * CroreUnit},
	}
	c.mu.Unlock()
	return c
}

func ids(props []models.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func cr(v float64) *float64 { return &v }

func TestSearchCityIsCaseInsensitiveSubstring(t *testing.T) {
	c := searchFixture(t)
	got := c.SearchProperties(SearchQuery{City: "mumbai"})
	require.ElementsMatch(t, []string{"p1", "p2"}, ids(got))

	got = c.SearchProperties(SearchQuery{City: "umba"})
	require.ElementsMatch(t, []string{"p1", "p2"}, ids(got))
}

func TestSearchPriceBoundsAreCrore(t *testing.T) {
	c := searchFixture(t)
	// 2 to 4 Crore covers p3 (3.2) and p4 (2.4) but not p1 (4.5) or p2 (1.8).
	got := c.SearchProperties(SearchQuery{MinPriceCr: cr(2), MaxPriceCr: cr(4)})
	require.ElementsMatch(t, []string{"p3", "p4"}, ids(got))

	// Bounds are inclusive.
	got = c.SearchProperties(SearchQuery{MinPriceCr: cr(4.5), MaxPriceCr: cr(4.5)})
	require.ElementsMatch(t, []string{"p1"}, ids(got))
}

func TestSearchTypeAndBedrooms(t *testing.T) {
	c := searchFixture(t)
	got := c.SearchProperties(SearchQuery{Type: "villa"})
	require.ElementsMatch(t, []string{"p3"}, ids(got))

	got = c.SearchProperties(SearchQuery{MinBedrooms: 3})
	require.ElementsMatch(t, []string{"p1", "p3"}, ids(got))

	got = c.SearchProperties(SearchQuery{City: "Mumbai", Type: "villa"})
	require.Empty(t, got)
}

func TestSearchZeroQueryReturnsEverything(t *testing.T) {
	c := searchFixture(t)
	got := c.SearchProperties(SearchQuery{})
	require.Len(t, got, 4)
}

func TestDepositFor(t *testing.T) {
	require.Equal(t, 2_250_000.0, DepositFor(45_000_000))
	require.Equal(t, 475_000.0, DepositFor(0.95*CroreUnit))
}
