// Package apod fetches NASA's astronomy picture of the day with a direct
// request, a relay proxy retry and a static fallback.
package apod

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/litescript/ls-atlas/internal/logging"
	"github.com/litescript/ls-atlas/internal/version"
)

const (
	// DefaultURL is the APOD API endpoint.
	DefaultURL = "https://api.nasa.gov/planetary/apod"

	// DefaultAPIKey is NASA's shared demo key.
	DefaultAPIKey = "DEMO_KEY"

	// DefaultProxyURL is a CORS relay; the escaped direct URL is appended.
	DefaultProxyURL = "https://api.allorigins.win/raw?url="

	// DefaultTimeout bounds the direct request only.
	DefaultTimeout = 8 * time.Second

	// StaticLink is offered when both requests fail.
	StaticLink = "https://apod.nasa.gov"
)

var (
	// ErrRateLimited is returned for HTTP 429 from the API.
	ErrRateLimited = errors.New("too many requests (API limit)")

	// ErrUnsupportedMedia is returned when the payload is neither an image
	// nor a video with a URL.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// Kind is what the widget displays.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindFallback Kind = "fallback"
)

// Source is the path that produced the result.
type Source string

const (
	SourceDirect Source = "direct"
	SourceProxy  Source = "proxy"
	SourceStatic Source = "static"
)

// Featured is the widget content.
type Featured struct {
	Kind        Kind
	Title       string
	URL         string // image or video URL
	Link        string // outbound link for video and fallback
	Date        string
	Explanation string
	Copyright   string
	Source      Source
	Errors      []error // failures along the way, in order
	FetchedAt   time.Time
	Duration    time.Duration
}

// Err joins the recorded failures.
func (f Featured) Err() error {
	var err error
	for _, e := range f.Errors {
		err = errors.CombineErrors(err, e)
	}
	return err
}

// payload is the subset of the APOD response the widget reads.
type payload struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl"`
	MediaType   string `json:"media_type"`
	Date        string `json:"date"`
	Explanation string `json:"explanation"`
	Copyright   string `json:"copyright"`
}

// Client fetches the picture of the day.
type Client struct {
	client   *http.Client
	url      string
	apiKey   string
	proxyURL string
	timeout  time.Duration
	logger   *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithURL sets the APOD endpoint.
func WithURL(u string) ClientOption {
	return func(c *Client) {
		c.url = u
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithProxyURL sets the relay prefix. Empty disables the proxy retry.
func WithProxyURL(u string) ClientOption {
	return func(c *Client) {
		c.proxyURL = u
	}
}

// WithTimeout sets the direct request deadline.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an APOD client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		url:      DefaultURL,
		apiKey:   DefaultAPIKey,
		proxyURL: DefaultProxyURL,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		// No client-level timeout: the proxy leg is unbounded apart from ctx.
		c.client = &http.Client{}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c
}

// DirectURL returns the endpoint with the API key applied.
func (c *Client) DirectURL() string {
	u, err := url.Parse(c.url)
	if err != nil {
		return c.url
	}
	q := u.Query()
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// ProxiedURL returns the relay URL wrapping the direct one.
func (c *Client) ProxiedURL() string {
	return c.proxyURL + url.QueryEscape(c.DirectURL())
}

// FetchFeatured runs the direct → proxy → static chain. It never fails; the
// returned value always has something to show.
func (c *Client) FetchFeatured(ctx context.Context) Featured {
	start := time.Now()
	f := c.fetchFeatured(ctx)
	f.FetchedAt = start
	f.Duration = time.Since(start)
	return f
}

func (c *Client) fetchFeatured(ctx context.Context) Featured {
	var failures []error

	dctx, cancel := context.WithTimeout(ctx, c.timeout)
	p, err := c.get(dctx, c.DirectURL())
	cancel()
	if err == nil {
		var f Featured
		if f, err = fromPayload(p, SourceDirect); err == nil {
			return f
		}
	}
	c.logger.Warn("apod primary failed: %v", err)
	failures = append(failures, errors.Wrap(err, "direct"))

	if c.proxyURL != "" && ctx.Err() == nil {
		p, err = c.get(ctx, c.ProxiedURL())
		if err == nil {
			var f Featured
			if f, err = fromPayload(p, SourceProxy); err == nil && f.Kind != KindImage {
				// The relay leg only shows pictures.
				err = errors.Wrapf(ErrUnsupportedMedia, "%q through proxy", p.MediaType)
			}
			if err == nil {
				f.Errors = failures
				return f
			}
		}
		c.logger.Error("apod proxy failed: %v", err)
		failures = append(failures, errors.Wrap(err, "proxy"))
	}

	return Featured{
		Kind:   KindFallback,
		Title:  "Could not load the picture of the day. Check your connection.",
		Link:   StaticLink,
		Source: SourceStatic,
		Errors: failures,
	}
}

func (c *Client) get(ctx context.Context, rawURL string) (payload, error) {
	var p payload

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return p, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", version.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return p, errors.Wrap(err, "fetch apod")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return p, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return p, errors.Newf("HTTP error %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return p, errors.Wrap(err, "read response body")
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return p, errors.Wrap(err, "decode apod")
	}
	return p, nil
}

func fromPayload(p payload, src Source) (Featured, error) {
	f := Featured{
		Title:       p.Title,
		URL:         p.URL,
		Date:        p.Date,
		Explanation: p.Explanation,
		Copyright:   p.Copyright,
		Source:      src,
	}
	if f.Title == "" {
		f.Title = "NASA APOD"
	}
	switch {
	case p.MediaType == "image" && p.URL != "":
		f.Kind = KindImage
		f.Link = p.HDURL
	case p.MediaType == "video" && p.URL != "":
		f.Kind = KindVideo
		f.Link = p.URL
	default:
		return Featured{}, errors.Wrapf(ErrUnsupportedMedia, "%q", p.MediaType)
	}
	return f, nil
}
