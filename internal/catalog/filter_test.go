package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecords() []Record {
	return []Record{
		{ID: "mars", Name: "Mars", Type: "terrestrial", Color: "#ef4444", Distance: 228},
		{ID: "earth", Name: "Earth", Type: "terrestrial", Color: "#3b82f6", Distance: 150},
		{ID: "neptune", Name: "Neptune", Type: "ice giant", Color: "#3b5bdb", Distance: 5906},
		{ID: "jupiter", Name: "Jupiter", Type: "gas giant", Color: "#d6a16b", Distance: 778},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func distances(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Distance
	}
	return out
}

func TestApply_Identity(t *testing.T) {
	in := sampleRecords()
	f := Filter{Type: TypeAll}
	assert.True(t, f.IsZero())
	assert.Equal(t, ids(in), ids(Apply(in, f)))
	assert.Equal(t, ids(in), ids(Apply(in, Filter{})))
}

func TestApply_DistanceSort(t *testing.T) {
	in := sampleRecords()

	asc := Apply(in, Filter{Sort: SortDistanceAsc})
	assert.Equal(t, []float64{150, 228, 778, 5906}, distances(asc))

	desc := Apply(in, Filter{Sort: SortDistanceDesc})
	assert.Equal(t, []float64{5906, 778, 228, 150}, distances(desc))

	// Input untouched.
	assert.Equal(t, []float64{228, 150, 5906, 778}, distances(in))
}

func TestApply_NameSortLocaleAware(t *testing.T) {
	in := []Record{
		{ID: "z", Name: "zeta"},
		{ID: "e", Name: "Éris"},
		{ID: "a", Name: "Ariel"},
		{ID: "f", Name: "Earth"},
	}
	out := Apply(in, Filter{Sort: SortNameAsc})
	// Byte order would put "zeta" before "Éris".
	assert.Equal(t, []string{"a", "f", "e", "z"}, ids(out))
}

func TestApply_TypeAndSearch(t *testing.T) {
	in := sampleRecords()

	out := Apply(in, Filter{Type: "terrestrial"})
	assert.Equal(t, []string{"mars", "earth"}, ids(out))

	out = Apply(in, Filter{Query: "  AR "})
	assert.Equal(t, []string{"mars", "earth"}, ids(out))

	out = Apply(in, Filter{Type: "gas giant", Query: "jup"})
	assert.Equal(t, []string{"jupiter"}, ids(out))

	out = Apply(in, Filter{Type: "terrestrial", Query: "nep"})
	assert.Empty(t, out)
}

func TestApply_UnknownSortKeepsOrder(t *testing.T) {
	in := sampleRecords()
	out := Apply(in, Filter{Sort: SortKey("radius-asc")})
	assert.Equal(t, ids(in), ids(out))
}

func TestTypesAndPreview(t *testing.T) {
	in := sampleRecords()
	assert.Equal(t, []string{"terrestrial", "ice giant", "gas giant"}, Types(in))

	assert.Len(t, Preview(in, 6), 4)
	assert.Len(t, Preview(in, 2), 2)
	assert.Empty(t, Preview(in, -1))
}
