package imagery

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-atlas/internal/version"
)

const (
	// DefaultProbeTimeout bounds a single candidate check.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultProbeRate is the number of remote checks per second.
	DefaultProbeRate = 4.0

	// DefaultProbeBurst allows a short burst when a grid first renders.
	DefaultProbeBurst = 4
)

// HTTPProber checks remote candidates with a one-byte ranged GET.
type HTTPProber struct {
	client  *http.Client
	limiter *rate.Limiter
}

// HTTPProberOption configures an HTTPProber.
type HTTPProberOption func(*HTTPProber)

// WithProbeClient sets a custom HTTP client.
func WithProbeClient(c *http.Client) HTTPProberOption {
	return func(p *HTTPProber) {
		p.client = c
	}
}

// WithProbeRate limits checks to perSecond with the given burst. A
// non-positive rate disables limiting.
func WithProbeRate(perSecond float64, burst int) HTTPProberOption {
	return func(p *HTTPProber) {
		if perSecond <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewHTTPProber creates a remote prober.
func NewHTTPProber(opts ...HTTPProberOption) *HTTPProber {
	p := &HTTPProber{
		limiter: rate.NewLimiter(rate.Limit(DefaultProbeRate), DefaultProbeBurst),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: DefaultProbeTimeout}
	}
	return p
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "probe rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", version.UserAgent)
	req.Header.Set("Range", "bytes=0-0")
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch image")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return errors.Newf("unexpected status code: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return errors.Newf("not an image: %s", ct)
	}
	return nil
}

// FileProber checks local asset candidates relative to Root.
type FileProber struct {
	Root string
}

// Probe implements Prober.
func (p FileProber) Probe(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(p.path(rawURL))
	if err != nil {
		return errors.Wrap(err, "local asset")
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return errors.Newf("local asset %s is empty or not a file", rawURL)
	}
	return nil
}

func (p FileProber) path(rawURL string) string {
	rel := strings.TrimPrefix(rawURL, "file://")
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// MuxProber routes local paths to Local and everything else to Remote.
type MuxProber struct {
	Local  Prober
	Remote Prober
}

// Probe implements Prober.
func (m MuxProber) Probe(ctx context.Context, rawURL string) error {
	if IsLocal(rawURL) {
		if m.Local == nil {
			return errors.New("no local prober")
		}
		return m.Local.Probe(ctx, rawURL)
	}
	if m.Remote == nil {
		return errors.New("no remote prober")
	}
	return m.Remote.Probe(ctx, rawURL)
}
