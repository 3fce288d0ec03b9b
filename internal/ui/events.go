package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/state"
)

const (
	// ActivityCount is how many events the landing page lists.
	ActivityCount = 4

	// eventFlash is how long a warning stays in the footer.
	eventFlash = 10 * time.Second
)

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

// eventText is the human line for an event.
func eventText(e state.Event) string {
	var text string
	switch e.Type {
	case state.EventCatalogLoaded:
		text = "catalog loaded"
	case state.EventCatalogFallback:
		text = "catalog source failed, using built-in data"
	case state.EventCatalogFailed:
		text = "catalog unavailable"
	case state.EventFeaturedProxy:
		text = "picture of the day loaded via proxy"
	case state.EventFeaturedStatic:
		text = "picture of the day unavailable"
	case state.EventTrackerLost:
		text = "ISS feed lost"
	case state.EventTrackerResumed:
		text = "ISS feed resumed"
	default:
		text = strings.ToLower(string(e.Type))
	}
	if e.Detail != "" && e.Type != state.EventFeaturedProxy {
		text += ": " + e.Detail
	}
	return text
}

// isWarning reports whether an event means something degraded.
func isWarning(e state.Event) bool {
	switch e.Type {
	case state.EventCatalogLoaded, state.EventTrackerResumed:
		return false
	}
	return true
}

// renderActivity lists the most recent events, newest first.
func renderActivity(events []state.Event, width int) string {
	if len(events) == 0 {
		return mutedStyle.Render("  No activity yet")
	}
	lines := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		line := e.Timestamp.Local().Format(time.TimeOnly) + "  " + truncate(eventText(e), width-14)
		if isWarning(e) {
			lines = append(lines, "  "+warnStyle.Render(line))
		} else {
			lines = append(lines, "  "+mutedStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// flashEvent returns the newest warning if it happened within eventFlash
// of now.
func flashEvent(events []state.Event, now time.Time) (state.Event, bool) {
	if len(events) == 0 {
		return state.Event{}, false
	}
	e := events[len(events)-1]
	if !isWarning(e) || now.Sub(e.Timestamp) > eventFlash {
		return state.Event{}, false
	}
	return e, true
}
