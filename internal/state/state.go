// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-atlas/internal/apod"
	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/tracker"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventCatalogLoaded   EventType = "CATALOG_LOADED"
	EventCatalogFallback EventType = "CATALOG_FALLBACK"
	EventCatalogFailed   EventType = "CATALOG_FAILED"
	EventFeaturedProxy   EventType = "FEATURED_PROXY"
	EventFeaturedStatic  EventType = "FEATURED_STATIC"
	EventTrackerLost     EventType = "TRACKER_LOST"
	EventTrackerResumed  EventType = "TRACKER_RESUMED"
)

// Event represents a notable change in one of the widgets.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// Manager handles all shared application state with thread-safe access.
// Each widget has its own slot so a failure in one never blocks another.
type Manager struct {
	mu sync.RWMutex

	// Catalog
	records         []catalog.Record
	origin          catalog.Origin
	catalogErr      error
	catalogAt       time.Time
	catalogDuration time.Duration

	// Picture of the day
	featured    apod.Featured
	hasFeatured bool

	// Tracker
	tracker        tracker.Snapshot
	trackerFailing bool

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration

	now func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		RefreshInterval: tracker.DefaultInterval,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		now:             time.Now,
	}
}

// UpdateCatalog stores a load result. A failed load keeps the previous
// records so views can keep showing them next to the error.
func (m *Manager) UpdateCatalog(res catalog.LoadResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalogAt = m.now()
	m.catalogErr = res.Error
	m.catalogDuration = res.Duration

	if res.Error != nil {
		m.addEvent(Event{Type: EventCatalogFailed, Timestamp: m.catalogAt, Detail: res.Error.Error()})
		return
	}

	m.records = res.Records
	m.origin = res.Origin
	if res.Origin == catalog.OriginFallback {
		detail := ""
		if res.PrimaryErr != nil {
			detail = res.PrimaryErr.Error()
		}
		m.addEvent(Event{Type: EventCatalogFallback, Timestamp: m.catalogAt, Detail: detail})
		return
	}
	m.addEvent(Event{Type: EventCatalogLoaded, Timestamp: m.catalogAt})
}

// UpdateFeatured stores the picture of the day.
func (m *Manager) UpdateFeatured(f apod.Featured) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.featured = f
	m.hasFeatured = true

	switch f.Source {
	case apod.SourceProxy:
		m.addEvent(Event{Type: EventFeaturedProxy, Timestamp: m.now(), Detail: f.Title})
	case apod.SourceStatic:
		m.addEvent(Event{Type: EventFeaturedStatic, Timestamp: m.now()})
	}
}

// UpdateTracker stores a tracker snapshot and records transitions between
// a working and a failing feed.
func (m *Manager) UpdateTracker(s tracker.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	failing := s.LastError != nil
	switch {
	case failing && !m.trackerFailing:
		m.addEvent(Event{Type: EventTrackerLost, Timestamp: m.now(), Detail: s.LastError.Error()})
	case !failing && m.trackerFailing:
		m.addEvent(Event{Type: EventTrackerResumed, Timestamp: m.now()})
	}
	m.trackerFailing = failing
	m.tracker = s
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Records         []catalog.Record
	Origin          catalog.Origin
	CatalogErr      error
	CatalogAt       time.Time
	CatalogDuration time.Duration

	Featured    apod.Featured
	HasFeatured bool

	Tracker tracker.Snapshot

	Events []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]catalog.Record, len(m.records))
	copy(records, m.records)

	trk := m.tracker
	trk.Trail = append([]tracker.Position(nil), m.tracker.Trail...)

	return Snapshot{
		Records:         records,
		Origin:          m.origin,
		CatalogErr:      m.catalogErr,
		CatalogAt:       m.catalogAt,
		CatalogDuration: m.catalogDuration,
		Featured:        m.featured,
		HasFeatured:     m.hasFeatured,
		Tracker:         trk,
		Events:          m.getEventsOrdered(),
	}
}

// RecentEvents returns the last n events, oldest first.
func (s Snapshot) RecentEvents(n int) []Event {
	if n <= 0 {
		return nil
	}
	if len(s.Events) <= n {
		return s.Events
	}
	return s.Events[len(s.Events)-n:]
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RefreshInterval returns the tracker poll interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}
