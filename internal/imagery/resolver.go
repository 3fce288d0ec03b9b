package imagery

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/logging"
)

// ErrUnresolved means every candidate, placeholder included, failed to load.
var ErrUnresolved = errors.New("image unresolved")

// Status is the state of an image slot.
type Status int

const (
	StatusPending Status = iota
	StatusResolved
	StatusUnresolved
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Slot binds a candidate list to one image consumer. It starts on the first
// candidate; Fail advances to the next one and Succeed settles the slot.
// Once settled, further Fail calls are ignored, so a late error event can
// never reassign a loaded image.
type Slot struct {
	candidates []string
	idx        int
	status     Status
	attempts   []Attempt
}

// Attempt records one candidate try.
type Attempt struct {
	URL string
	Err error
}

// NewSlot creates a pending slot. An empty list yields an unresolved slot.
func NewSlot(candidates []string) *Slot {
	s := &Slot{candidates: append([]string(nil), candidates...)}
	if len(s.candidates) == 0 {
		s.status = StatusUnresolved
	}
	return s
}

// Current returns the candidate being tried (or the resolved URL).
func (s *Slot) Current() (string, bool) {
	if s.status == StatusUnresolved || s.idx >= len(s.candidates) {
		return "", false
	}
	return s.candidates[s.idx], true
}

// Index returns the position of the current candidate.
func (s *Slot) Index() int { return s.idx }

// Status returns the slot state.
func (s *Slot) Status() Status { return s.status }

// Remaining returns how many candidates are left after the current one.
func (s *Slot) Remaining() int {
	if s.status != StatusPending {
		return 0
	}
	return len(s.candidates) - s.idx - 1
}

// Attempts returns the recorded tries in order.
func (s *Slot) Attempts() []Attempt {
	return append([]Attempt(nil), s.attempts...)
}

// Fail records a load failure of the current candidate and advances. It
// returns the next candidate, or false when the slot became unresolved or
// was already settled.
func (s *Slot) Fail(err error) (string, bool) {
	if s.status != StatusPending {
		return "", false
	}
	s.attempts = append(s.attempts, Attempt{URL: s.candidates[s.idx], Err: err})
	s.idx++
	if s.idx >= len(s.candidates) {
		s.status = StatusUnresolved
		return "", false
	}
	return s.candidates[s.idx], true
}

// Succeed settles the slot on the current candidate.
func (s *Slot) Succeed() {
	if s.status != StatusPending {
		return
	}
	s.attempts = append(s.attempts, Attempt{URL: s.candidates[s.idx]})
	s.status = StatusResolved
}

// Result is the outcome of driving a slot to completion.
type Result struct {
	Status   Status
	URL      string
	Index    int
	Attempts []Attempt
}

// Err returns ErrUnresolved (with the last cause) for an unresolved result.
func (r Result) Err() error {
	if r.Status == StatusResolved {
		return nil
	}
	if n := len(r.Attempts); n > 0 && r.Attempts[n-1].Err != nil {
		return errors.Wrapf(ErrUnresolved, "last candidate: %v", r.Attempts[n-1].Err)
	}
	return ErrUnresolved
}

// Placeholder reports whether the resolution fell through to the placeholder.
func (r Result) Placeholder() bool {
	return r.Status == StatusResolved && IsPlaceholder(r.URL)
}

func (s *Slot) result() Result {
	res := Result{Status: s.status, Index: s.idx, Attempts: s.Attempts()}
	if s.status == StatusResolved {
		res.URL = s.candidates[s.idx]
	}
	return res
}

// Prober checks whether a candidate loads.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, rawURL string) error

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, rawURL string) error {
	return f(ctx, rawURL)
}

// Resolver is the single "attempt next candidate" driver.
type Resolver struct {
	prober Prober
	logger *logging.Logger
}

// NewResolver creates a resolver backed by prober.
func NewResolver(prober Prober, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{prober: prober, logger: logger}
}

// Resolve tries candidates strictly in order and stops at the first one the
// prober accepts. A cancelled context leaves the result unresolved.
func (r *Resolver) Resolve(ctx context.Context, candidates []string) Result {
	slot := NewSlot(candidates)
	for {
		u, ok := slot.Current()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			slot.attempts = append(slot.attempts, Attempt{URL: u, Err: err})
			slot.status = StatusUnresolved
			break
		}
		err := r.prober.Probe(ctx, u)
		if err == nil {
			slot.Succeed()
			break
		}
		r.logger.Debug("image candidate %d failed: %s: %v", slot.Index(), u, err)
		if _, ok := slot.Fail(err); !ok {
			break
		}
	}

	res := slot.result()
	if res.Status == StatusUnresolved {
		r.logger.Warn("image unresolved after %d attempts", len(res.Attempts))
	}
	return res
}

// ResolveRecord builds the candidate list for rec and resolves it.
func (r *Resolver) ResolveRecord(ctx context.Context, rec catalog.Record, kind Kind, opts Options) Result {
	return r.Resolve(ctx, Candidates(rec, kind, opts))
}

// ResolveAll resolves one slot per record concurrently, at most limit at a
// time. Each record's own chain stays sequential. Results align with records.
func (r *Resolver) ResolveAll(ctx context.Context, records []catalog.Record, kind Kind, opts Options, limit int) []Result {
	results := make([]Result, len(records))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, rec := range records {
		g.Go(func() error {
			results[i] = r.ResolveRecord(gctx, rec, kind, opts)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
