package catalog

import (
	"context"
	_ "embed"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/litescript/ls-atlas/internal/logging"
	"github.com/litescript/ls-atlas/internal/version"
)

const (
	// DefaultSource is the catalog document path relative to the working directory.
	DefaultSource = "data/planets.json"

	// DefaultTimeout for HTTP catalog requests.
	DefaultTimeout = 10 * time.Second
)

// ErrDataUnavailable is returned when neither the primary source nor the
// embedded fallback yields a catalog.
var ErrDataUnavailable = errors.New("planet data unavailable")

//go:embed fallback.json
var embeddedCatalog []byte

// Origin records which source produced a catalog.
type Origin string

const (
	OriginPrimary  Origin = "primary"
	OriginFallback Origin = "fallback"
)

// Loader fetches the planet catalog.
type Loader struct {
	client   *http.Client
	source   string
	timeout  time.Duration
	fallback []byte
	logger   *logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSource sets the primary catalog location: an http(s) URL, a file:// URL
// or a plain filesystem path.
func WithSource(source string) LoaderOption {
	return func(l *Loader) {
		l.source = source
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// WithFallback replaces the embedded fallback document. A nil slice disables
// the fallback entirely.
func WithFallback(doc []byte) LoaderOption {
	return func(l *Loader) {
		l.fallback = doc
	}
}

// WithLogger sets the logger used to report primary-source failures.
func WithLogger(logger *logging.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a catalog loader. The embedded dataset is the fallback
// unless replaced with WithFallback.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		source:   DefaultSource,
		timeout:  DefaultTimeout,
		fallback: embeddedCatalog,
		logger:   logging.Discard(),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.client == nil {
		l.client = &http.Client{
			Timeout: l.timeout,
		}
	}

	return l
}

// LoadResult contains the outcome of a load.
type LoadResult struct {
	Records    []Record
	Origin     Origin
	PrimaryErr error // set when the fallback was used
	Duration   time.Duration
	Error      error
}

// Fetch loads the catalog, reporting which source served it. Records keep
// the order of the source document.
func (l *Loader) Fetch(ctx context.Context) LoadResult {
	start := time.Now()
	result := LoadResult{}

	records, err := l.loadPrimary(ctx)
	if err == nil {
		result.Records = records
		result.Origin = OriginPrimary
		result.Duration = time.Since(start)
		return result
	}

	l.logger.Warn("catalog source %s failed: %v", l.source, err)
	result.PrimaryErr = err

	if l.fallback == nil {
		result.Error = errors.WithHint(
			errors.Wrapf(ErrDataUnavailable, "load %s: %v", l.source, err),
			"serve the catalog over HTTP or run from the project root")
		result.Duration = time.Since(start)
		return result
	}

	records, ferr := Decode(l.fallback)
	result.Duration = time.Since(start)
	if ferr != nil {
		result.Error = errors.WithSecondaryError(
			errors.Wrapf(ErrDataUnavailable, "load %s: %v", l.source, err), ferr)
		return result
	}

	result.Records = records
	result.Origin = OriginFallback
	return result
}

// Load returns the catalog or ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context) ([]Record, error) {
	res := l.Fetch(ctx)
	return res.Records, res.Error
}

// Source returns the configured primary location.
func (l *Loader) Source() string {
	return l.source
}

func (l *Loader) loadPrimary(ctx context.Context) ([]Record, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case strings.HasPrefix(l.source, "http://"), strings.HasPrefix(l.source, "https://"):
		raw, err = l.fetchHTTP(ctx)
	default:
		raw, err = os.ReadFile(strings.TrimPrefix(l.source, "file://"))
		if err != nil {
			err = errors.Wrap(err, "read catalog file")
		}
	}
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", version.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return body, nil
}

// ByDistance returns a copy of records ordered nearest first. The atlas
// starts from this order; the week pick and the preview use load order.
func ByDistance(records []Record) []Record {
	out := append([]Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}
