package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-atlas/internal/catalog"
)

var panelRecords = []catalog.Record{
	{ID: "mercury", Name: "Mercury", Radius: 2440},
	{ID: "earth", Name: "Earth", Radius: 6371, Atmosphere: map[string]float64{"N2": 78, "O2": 21, "Ar": 1}},
	{ID: "jupiter", Name: "Jupiter", Radius: 69911},
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"empty id is earth", "", "earth"},
		{"known id", "jupiter", "jupiter"},
		{"unknown id falls back to first", "pluto", "mercury"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Resolve(panelRecords, tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.ID)
		})
	}

	_, ok := Resolve(nil, "earth")
	assert.False(t, ok)
}

func TestSizePercentAndLabel(t *testing.T) {
	assert.Equal(t, SizeBarMinPct, SizePercent(panelRecords[0]))
	assert.InDelta(t, 69911.0/70000*100, SizePercent(panelRecords[2]), 1e-9)

	assert.Equal(t, "1x Earth", SizeLabel(panelRecords[1]))
	assert.Equal(t, "11.0x Earth", SizeLabel(panelRecords[2]))
	assert.Equal(t, "0.4x Earth", SizeLabel(panelRecords[0]))
}

func TestSizeBarProgress(t *testing.T) {
	j := panelRecords[2]
	assert.Zero(t, SizeBarProgress(j, 0))
	assert.Zero(t, SizeBarProgress(j, 99*time.Millisecond))

	mid := SizeBarProgress(j, SizeBarDelay+SizeBarDuration/2)
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, SizePercent(j))

	assert.Equal(t, SizePercent(j), SizeBarProgress(j, time.Second))
}

func TestAtmosphereSegments(t *testing.T) {
	segs := AtmosphereSegments(panelRecords[1], 40)
	require.Len(t, segs, 3)

	total := 0
	for _, s := range segs {
		total += s.Cells
		assert.GreaterOrEqual(t, s.Cells, 1)
	}
	assert.Equal(t, 40, total)
	assert.Equal(t, "N2", segs[0].Gas.Name)
	assert.Equal(t, Palette[0], segs[0].Color)
	assert.Equal(t, Palette[2], segs[2].Color)

	assert.Nil(t, AtmosphereSegments(panelRecords[0], 40))
	assert.Contains(t, RenderAtmosphere(panelRecords[0], 40), "No atmosphere data")
	assert.Contains(t, RenderAtmosphere(panelRecords[1], 40), "N2 78%")
}

func TestRenderSizeBar(t *testing.T) {
	assert.Empty(t, RenderSizeBar(50, 0))
	assert.NotEmpty(t, RenderSizeBar(150, 10))
}
