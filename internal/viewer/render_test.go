package viewer

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type solid color.RGBA

func (s solid) At(u, v float64) color.RGBA { return color.RGBA(s) }

// hemispheres is red for u < 0.5 and blue otherwise.
type hemispheres struct{}

func (hemispheres) At(u, v float64) color.RGBA {
	if u < 0.5 {
		return color.RGBA{R: 255, A: 255}
	}
	return color.RGBA{B: 255, A: 255}
}

func TestRasterizeDimensions(t *testing.T) {
	f := Rasterize(NewState(), 40, 20, solid{R: 200, G: 200, B: 200, A: 255}, Options{})
	require.Len(t, f, 20)
	for _, row := range f {
		assert.Len(t, row, 40)
	}
	assert.Nil(t, Rasterize(NewState(), 0, 10, solid{}, Options{}))
}

func TestRasterizeCoverageShrinksWithZoom(t *testing.T) {
	tex := solid{R: 100, G: 100, B: 100, A: 255}
	near := NewState()
	near.Zoom = MinZoom + 0.5
	far := NewState()
	far.Zoom = MaxZoom

	cn := Rasterize(near, 60, 30, tex, Options{}).Coverage()
	cf := Rasterize(far, 60, 30, tex, Options{}).Coverage()
	assert.Greater(t, cn, cf)
	assert.Greater(t, cf, 0.0)
}

func TestRasterizeCenterIsLit(t *testing.T) {
	f := Rasterize(NewState(), 41, 21, solid{R: 200, G: 200, B: 200, A: 255}, Options{})
	c := f[10][20]
	require.True(t, c.HasTop)
	assert.Greater(t, c.Top.R, uint8(60))

	// Corners are empty space.
	assert.False(t, f[0][0].HasTop)
	assert.False(t, f[0][0].HasBottom)
}

func TestRotationChangesVisibleHemisphere(t *testing.T) {
	s := NewState()
	front := Rasterize(s, 41, 21, hemispheres{}, Options{})[10][20].Top

	s.RotY += 3.14159
	back := Rasterize(s, 41, 21, hemispheres{}, Options{})[10][20].Top

	assert.NotEqual(t, front.R > 0, back.R > 0)
}

func TestHaloAddsRim(t *testing.T) {
	tex := solid{R: 100, G: 100, B: 100, A: 255}
	plain := Rasterize(NewState(), 60, 30, tex, Options{}).Coverage()
	halo := Rasterize(NewState(), 60, 30, tex, Options{Halo: HaloColor("earth")}).Coverage()
	assert.Greater(t, halo, plain)
}

func TestFrameStrings(t *testing.T) {
	f := Rasterize(NewState(), 20, 10, solid{R: 255, G: 255, B: 255, A: 255}, Options{Stars: true})
	ascii := f.ASCII()
	lines := strings.Split(ascii, "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, ascii, "@")

	assert.NotEmpty(t, f.String())
	assert.Equal(t, "#0a0bff", string(hexColor(color.RGBA{R: 10, G: 11, B: 255})))
}

func TestApparentRadius(t *testing.T) {
	assert.Greater(t, ApparentRadius(MinZoom), ApparentRadius(DefaultZoom))
	assert.Greater(t, ApparentRadius(DefaultZoom), ApparentRadius(MaxZoom))
	assert.InDelta(t, ApparentRadius(MaxZoom), ApparentRadius(100), 1e-12)
}
