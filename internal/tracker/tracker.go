// Package tracker polls a satellite position API and keeps a bounded trail
// of recent positions.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/litescript/ls-atlas/internal/logging"
	"github.com/litescript/ls-atlas/internal/version"
)

const (
	// DefaultURL is the International Space Station (NORAD 25544) endpoint.
	DefaultURL = "https://api.wheretheiss.at/v1/satellites/25544"

	// DefaultInterval between polls.
	DefaultInterval = 5 * time.Second

	// DefaultTimeout for a single request.
	DefaultTimeout = 10 * time.Second
)

// ErrBadStatus is returned for a non-2xx API response.
var ErrBadStatus = errors.New("unexpected status")

// Position is one satellite fix.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"` // km
	Velocity  float64 `json:"velocity"` // km/h
	Timestamp int64   `json:"timestamp"` // unix seconds
}

// Time returns the fix time in UTC.
func (p Position) Time() time.Time {
	return time.Unix(p.Timestamp, 0).UTC()
}

// Popup formats the marker label. Missing altitude or velocity show as "—";
// a missing timestamp falls back to now.
func Popup(p Position, now time.Time) string {
	alt, vel := "—", "—"
	if p.Altitude != 0 {
		alt = fmt.Sprintf("%.1f km", p.Altitude)
	}
	if p.Velocity != 0 {
		vel = fmt.Sprintf("%.1f km/h", p.Velocity)
	}
	ts := now.UTC()
	if p.Timestamp != 0 {
		ts = p.Time()
	}
	return fmt.Sprintf("ISS\n%.2f, %.2f\nAltitude: %s\nVelocity: %s\nUpdated: %s",
		p.Latitude, p.Longitude, alt, vel, ts.Format(time.RFC1123))
}

// Snapshot is a copy of the tracker state.
type Snapshot struct {
	Latest    Position
	HasFix    bool
	Trail     []Position
	Popup     string
	LastPoll  time.Time
	LastError error
	Polls     int
	Failures  int
}

// Tracker polls the position endpoint.
type Tracker struct {
	client   *http.Client
	url      string
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time

	mu        sync.RWMutex
	latest    Position
	hasFix    bool
	trail     *Trail
	popup     string
	lastPoll  time.Time
	lastError error
	polls     int
	failures  int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithURL sets the position endpoint.
func WithURL(u string) Option {
	return func(t *Tracker) {
		t.url = u
	}
}

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithTrailLen sets the trail capacity.
func WithTrailLen(n int) Option {
	return func(t *Tracker) {
		t.trail = NewTrail(n)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tracker) {
		t.client = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// New creates a tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		url:      DefaultURL,
		interval: DefaultInterval,
		trail:    NewTrail(DefaultTrailLen),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: DefaultTimeout}
	}
	if t.logger == nil {
		t.logger = logging.Discard()
	}
	return t
}

// Interval returns the poll interval.
func (t *Tracker) Interval() time.Duration { return t.interval }

// Fetch retrieves one position without touching tracker state.
func (t *Tracker) Fetch(ctx context.Context) (Position, error) {
	var p Position

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return p, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", version.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return p, errors.Wrap(err, "fetch position")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return p, errors.Wrapf(ErrBadStatus, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return p, errors.Wrap(err, "read response body")
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return p, errors.Wrap(err, "decode position")
	}
	return p, nil
}

// Poll fetches a position and, on success, moves the marker, extends the
// trail and rebuilds the popup. A failure is logged and recorded but leaves
// the position and trail untouched.
func (t *Tracker) Poll(ctx context.Context) error {
	p, err := t.Fetch(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.polls++
	t.lastPoll = t.now()
	t.lastError = err
	if err != nil {
		t.failures++
		t.logger.Error("position fetch failed: %v", err)
		return err
	}

	t.latest = p
	t.hasFix = true
	t.trail.Push(p)
	t.popup = Popup(p, t.lastPoll)
	t.logger.Debug("position %.2f, %.2f (trail %d)", p.Latitude, p.Longitude, t.trail.Len())
	return nil
}

// Run polls immediately and then on every interval until ctx is done.
// Failures never stop the loop. onUpdate, if set, is called after every
// poll with a fresh snapshot.
func (t *Tracker) Run(ctx context.Context, onUpdate func(Snapshot)) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		_ = t.Poll(ctx)
		if ctx.Err() != nil {
			return
		}
		if onUpdate != nil {
			onUpdate(t.Snapshot())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		Latest:    t.latest,
		HasFix:    t.hasFix,
		Trail:     t.trail.Points(),
		Popup:     t.popup,
		LastPoll:  t.lastPoll,
		LastError: t.lastError,
		Polls:     t.polls,
		Failures:  t.failures,
	}
}
