package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/astro"
	"github.com/litescript/ls-atlas/internal/tracker"
)

const (
	glyphStation = '◉'
	glyphTrail   = '•'
	glyphGrid    = '·'
	glyphEquator = '-'

	colorStation = "#F97316"
	colorTrail   = "#F59E0B"
	colorGrid    = "238"
)

var (
	stationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorStation)).Bold(true)
	trailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorTrail))
	gridStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGrid))
	mapBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155"))
)

// TrackerModel shows the station on an equirectangular world grid with its
// recent ground track.
type TrackerModel struct {
	width  int
	height int

	snap tracker.Snapshot
	now  time.Time
}

// NewTrackerModel creates a new tracker model.
func NewTrackerModel() TrackerModel {
	return TrackerModel{}
}

// SetSize updates the viewport size.
func (m TrackerModel) SetSize(width, height int) TrackerModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new tracker snapshot.
func (m TrackerModel) UpdateData(snap tracker.Snapshot, now time.Time) TrackerModel {
	m.snap = snap
	m.now = now
	return m
}

// Update handles messages.
func (m TrackerModel) Update(msg tea.Msg) (TrackerModel, tea.Cmd) {
	return m, nil
}

// View renders the map and the popup text.
func (m TrackerModel) View() string {
	side := 34
	mapW := m.width - side - 4
	mapH := m.height - 2
	if mapW < 20 {
		mapW = 20
	}
	if mapH < 6 {
		mapH = 6
	}
	// Keep the 2:1 world aspect within the available space.
	if mapW > mapH*4 {
		mapW = mapH * 4
	} else if mapH > mapW/4 {
		mapH = mapW / 4
	}

	grid := renderMap(m.snap.Trail, m.snap.Latest, m.snap.HasFix, mapW, mapH)
	mapView := mapBoxStyle.Render(grid)

	return lipgloss.JoinHorizontal(lipgloss.Top, mapView, "  ", m.renderInfo(side))
}

func (m TrackerModel) renderInfo(width int) string {
	var lines []string
	lines = append(lines, sectionStyle.Render("International Space Station"), "")

	if m.snap.HasFix {
		lines = append(lines, strings.Split(m.snap.Popup, "\n")...)
		lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("trail: %d points", len(m.snap.Trail))))
	} else {
		lines = append(lines, mutedStyle.Render("Waiting for the first position…"))
	}

	if m.snap.LastError != nil {
		lines = append(lines, "", errorStyle.Render("Last update failed:"),
			errorStyle.Render(truncate(m.snap.LastError.Error(), width*2)))
	}
	if !m.snap.LastPoll.IsZero() {
		ago := m.now.Sub(m.snap.LastPoll).Round(time.Second)
		if ago < 0 {
			ago = 0
		}
		lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("polled %s ago · %d ok / %d failed",
			ago, m.snap.Polls-m.snap.Failures, m.snap.Failures)))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// renderMap draws a w×h map: a 30° graticule, the trail as connected
// segments (never across the antimeridian) and the station marker.
func renderMap(trail []tracker.Position, latest tracker.Position, hasFix bool, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	canvas := make([][]rune, h)
	for i := range canvas {
		canvas[i] = make([]rune, w)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for lat := -60.0; lat <= 60; lat += 30 {
		for lon := -180.0; lon < 180; lon += 30 {
			col, row := astro.ProjectEquirect(astro.GeoCoord{Lat: lat, Lon: lon}, w, h)
			canvas[row][col] = glyphGrid
		}
	}
	_, eq := astro.ProjectEquirect(astro.GeoCoord{}, w, h)
	for col := 0; col < w; col++ {
		if canvas[eq][col] == ' ' {
			canvas[eq][col] = glyphEquator
		}
	}

	for i, p := range trail {
		col, row := astro.ProjectEquirect(astro.GeoCoord{Lat: p.Latitude, Lon: p.Longitude}, w, h)
		canvas[row][col] = glyphTrail
		if i == 0 {
			continue
		}
		prev := trail[i-1]
		if astro.CrossesAntimeridian(prev.Longitude, p.Longitude) {
			continue
		}
		pc, pr := astro.ProjectEquirect(astro.GeoCoord{Lat: prev.Latitude, Lon: prev.Longitude}, w, h)
		drawSegment(canvas, pc, pr, col, row)
	}

	if hasFix {
		col, row := astro.ProjectEquirect(astro.GeoCoord{Lat: latest.Latitude, Lon: latest.Longitude}, w, h)
		canvas[row][col] = glyphStation
	}

	var b strings.Builder
	for i, row := range canvas {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, r := range row {
			switch r {
			case glyphStation:
				b.WriteString(stationStyle.Render(string(r)))
			case glyphTrail:
				b.WriteString(trailStyle.Render(string(r)))
			case glyphGrid, glyphEquator:
				b.WriteString(gridStyle.Render(string(r)))
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// drawSegment fills the cells between two trail points.
func drawSegment(canvas [][]rune, c0, r0, c1, r1 int) {
	dc, dr := c1-c0, r1-r0
	steps := max(abs(dc), abs(dr))
	for s := 1; s < steps; s++ {
		c := c0 + dc*s/steps
		r := r0 + dr*s/steps
		canvas[r][c] = glyphTrail
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
