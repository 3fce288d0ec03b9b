package imagery

import (
	"context"
	"image"
	"image/color"
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/logging"
	"github.com/litescript/ls-atlas/internal/version"
)

// maxTextureBytes caps a downloaded surface map.
const maxTextureBytes = 16 << 20

// TextureLoader downloads and decodes surface maps. It implements Prober so
// the same resolver chain that picks a URL also yields the decoded image.
type TextureLoader struct {
	client *http.Client
	files  FileProber

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewTextureLoader creates a loader. root is where local assets live.
func NewTextureLoader(client *http.Client, root string) *TextureLoader {
	if client == nil {
		client = &http.Client{Timeout: DefaultProbeTimeout}
	}
	return &TextureLoader{
		client: client,
		files:  FileProber{Root: root},
		cache:  make(map[string]image.Image),
	}
}

// Probe implements Prober by fully decoding the candidate.
func (l *TextureLoader) Probe(ctx context.Context, rawURL string) error {
	_, err := l.Load(ctx, rawURL)
	return err
}

// Load returns the decoded image at rawURL, caching successes.
func (l *TextureLoader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[rawURL]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	var (
		rc  io.ReadCloser
		err error
	)
	if IsLocal(rawURL) {
		rc, err = os.Open(l.files.path(rawURL))
		if err != nil {
			return nil, errors.Wrap(err, "open texture")
		}
	} else {
		rc, err = l.fetch(ctx, rawURL)
		if err != nil {
			return nil, err
		}
	}
	defer rc.Close()

	img, _, err = image.Decode(io.LimitReader(rc, maxTextureBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "decode texture %s", rawURL)
	}

	l.mu.Lock()
	l.cache[rawURL] = img
	l.mu.Unlock()
	return img, nil
}

// Cached returns a previously decoded image.
func (l *TextureLoader) Cached(rawURL string) (image.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.cache[rawURL]
	return img, ok
}

func (l *TextureLoader) fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", version.UserAgent)
	req.Header.Set("Accept", "image/png,image/jpeg")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch texture")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Newf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Sampler maps (u, v) in [0,1) to a texel of an equirectangular image.
type Sampler struct {
	img    image.Image
	bounds image.Rectangle
}

// NewSampler wraps img for UV lookups.
func NewSampler(img image.Image) *Sampler {
	return &Sampler{img: img, bounds: img.Bounds()}
}

// At returns the texel color at (u, v). u wraps; v clamps.
func (s *Sampler) At(u, v float64) color.RGBA {
	w, h := s.bounds.Dx(), s.bounds.Dy()
	if w == 0 || h == 0 {
		return color.RGBA{A: 0xff}
	}
	u -= math.Floor(u)
	v = math.Max(0, math.Min(v, 1))

	x := s.bounds.Min.X + int(u*float64(w))%w
	y := s.bounds.Min.Y + int(v*float64(h-1))
	r, g, b, _ := s.img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}

// Solid is a uniform texture for planets with no surface map.
type Solid color.RGBA

// At implements the texture lookup with a constant color.
func (s Solid) At(u, v float64) color.RGBA {
	return color.RGBA(s)
}

// ParseHex parses "#rrggbb" into a color.
func ParseHex(hex string) (color.RGBA, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return color.RGBA{}, errors.Newf("invalid hex color %q", hex)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid hex color %q", hex)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

// Surface is anything the sphere viewer can sample.
type Surface interface {
	At(u, v float64) color.RGBA
}

// SurfaceFor walks the texture chain for rec with l as the prober and
// returns a sampler over the first map that decodes. When nothing decodes
// the record's own color is used as a solid surface.
func (l *TextureLoader) SurfaceFor(ctx context.Context, rec catalog.Record, opts Options, logger *logging.Logger) (Surface, Result) {
	res := NewResolver(l, logger).ResolveRecord(ctx, rec, KindTexture, opts)
	if res.Status == StatusResolved {
		if img, ok := l.Cached(res.URL); ok {
			return NewSampler(img), res
		}
	}
	c, err := ParseHex(rec.Color)
	if err != nil {
		c = color.RGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}
	}
	return Solid(c), res
}
