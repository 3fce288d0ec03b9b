package imagery

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-atlas/internal/catalog"
)

func TestSurfaceForLocalTexture(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, TexturesDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "vulcan.jpg"))
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	l := NewTextureLoader(nil, root)
	rec := catalog.Record{ID: "vulcan", Name: "Vulcan", Color: "#ff0000"}

	surf, res := l.SurfaceFor(context.Background(), rec, Options{}, nil)
	require.Equal(t, StatusResolved, res.Status)
	assert.Equal(t, 0, res.Index)
	_, isSampler := surf.(*Sampler)
	assert.True(t, isSampler)
	assert.Greater(t, surf.At(0.5, 0.5).G, uint8(150))
}

func TestSurfaceForFallsBackToSolid(t *testing.T) {
	l := NewTextureLoader(nil, t.TempDir())
	rec := catalog.Record{ID: "vulcan", Name: "Vulcan", Color: "#ff0000"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	surf, res := l.SurfaceFor(ctx, rec, Options{}, nil)
	assert.Equal(t, StatusUnresolved, res.Status)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, surf.At(0.1, 0.9))
}
