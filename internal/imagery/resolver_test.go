package imagery

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/litescript/ls-atlas/internal/catalog"
)

// scripted fails every URL in bad and records probe order.
type scripted struct {
	mu    sync.Mutex
	bad   map[string]bool
	calls []string
}

func (s *scripted) Probe(_ context.Context, u string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, u)
	if s.bad[u] {
		return errors.New("404")
	}
	return nil
}

func TestSlotAdvancesAndSettles(t *testing.T) {
	s := NewSlot([]string{"a", "b", "c"})
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur)
	assert.Equal(t, 2, s.Remaining())

	next, ok := s.Fail(errors.New("boom"))
	require.True(t, ok)
	assert.Equal(t, "b", next)

	s.Succeed()
	assert.Equal(t, StatusResolved, s.Status())

	// A late failure event must not move a settled slot.
	_, ok = s.Fail(errors.New("late"))
	assert.False(t, ok)
	cur, _ = s.Current()
	assert.Equal(t, "b", cur)
	assert.Len(t, s.Attempts(), 2)
}

func TestSlotExhausted(t *testing.T) {
	s := NewSlot([]string{"a"})
	_, ok := s.Fail(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, StatusUnresolved, s.Status())
	_, ok = s.Current()
	assert.False(t, ok)

	empty := NewSlot(nil)
	assert.Equal(t, StatusUnresolved, empty.Status())
}

func TestResolveStopsAtFirstSuccess(t *testing.T) {
	p := &scripted{bad: map[string]bool{"a": true}}
	r := NewResolver(p, nil)

	res := r.Resolve(context.Background(), []string{"a", "b", "c"})
	assert.Equal(t, StatusResolved, res.Status)
	assert.Equal(t, "b", res.URL)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, []string{"a", "b"}, p.calls)
	assert.NoError(t, res.Err())
}

func TestResolveFallsToPlaceholder(t *testing.T) {
	rec := catalog.Record{ID: "saturn", Name: "Saturn", Color: "#e7d3a1"}
	list := Candidates(rec, KindThumb, Options{})
	bad := map[string]bool{}
	for _, u := range list[:len(list)-1] {
		bad[u] = true
	}
	r := NewResolver(&scripted{bad: bad}, nil)

	res := r.ResolveRecord(context.Background(), rec, KindThumb, Options{})
	assert.Equal(t, StatusResolved, res.Status)
	assert.True(t, res.Placeholder())
	assert.Len(t, res.Attempts, len(list))
}

func TestResolveUnresolvedIsTerminal(t *testing.T) {
	p := &scripted{bad: map[string]bool{"a": true, "b": true}}
	r := NewResolver(p, nil)

	res := r.Resolve(context.Background(), []string{"a", "b"})
	assert.Equal(t, StatusUnresolved, res.Status)
	assert.Empty(t, res.URL)
	assert.True(t, errors.Is(res.Err(), ErrUnresolved))
	assert.Len(t, p.calls, 2)
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &scripted{}
	res := NewResolver(p, nil).Resolve(ctx, []string{"a"})
	assert.Equal(t, StatusUnresolved, res.Status)
	assert.Empty(t, p.calls)
}

func TestResolveAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	records := []catalog.Record{
		{ID: "mercury", Name: "Mercury", Color: "#9ca3af"},
		{ID: "venus", Name: "Venus", Color: "#f6c177"},
		{ID: "earth", Name: "Earth", Color: "#3b82f6"},
	}
	p := &scripted{bad: map[string]bool{remoteThumbs["venus"]: true}}
	r := NewResolver(p, nil)

	results := r.ResolveAll(context.Background(), records, KindThumb, Options{}, 2)
	require.Len(t, results, 3)
	assert.Equal(t, remoteThumbs["mercury"], results[0].URL)
	assert.Equal(t, remotePhotos["venus"], results[1].URL)
	assert.Equal(t, remoteThumbs["earth"], results[2].URL)
}
