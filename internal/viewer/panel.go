package viewer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/catalog"
)

// Palette colors the atmosphere segments in composition order.
var Palette = []string{"#60a5fa", "#34d399", "#f472b6", "#f6e05e", "#cbd5e1", "#8b5cf6"}

const (
	// SizeBarScaleKm is the radius that fills the size bar.
	SizeBarScaleKm = 70000.0

	// SizeBarMinPct keeps small planets visible.
	SizeBarMinPct = 5.0

	// SizeBarDelay is how long the bar stays empty before filling.
	SizeBarDelay = 100 * time.Millisecond

	// SizeBarDuration is the fill transition length.
	SizeBarDuration = 600 * time.Millisecond
)

// Resolve picks the record to show for id: "" means earth, an unknown id
// falls back to the first record. ok is false only for an empty catalog.
func Resolve(records []catalog.Record, id string) (catalog.Record, bool) {
	if id == "" {
		id = catalog.ReferenceID
	}
	if r, ok := catalog.Find(records, id); ok {
		return r, true
	}
	if len(records) == 0 {
		return catalog.Record{}, false
	}
	return records[0], true
}

// SizePercent is the size bar's target width in percent.
func SizePercent(r catalog.Record) float64 {
	return math.Max(SizeBarMinPct, r.Radius/SizeBarScaleKm*100)
}

// SizeLabel compares the radius to Earth's, e.g. "11.0x Earth".
func SizeLabel(r catalog.Record) string {
	if r.ID == catalog.ReferenceID {
		return "1x Earth"
	}
	return fmt.Sprintf("%.1fx Earth", r.SizeRatio())
}

// SizeBarProgress returns the animated bar width in percent, elapsed since
// the panel was shown. It stays at 0 for SizeBarDelay, then eases out to
// SizePercent.
func SizeBarProgress(r catalog.Record, elapsed time.Duration) float64 {
	target := SizePercent(r)
	if elapsed < SizeBarDelay {
		return 0
	}
	t := float64(elapsed-SizeBarDelay) / float64(SizeBarDuration)
	if t >= 1 {
		return target
	}
	// ease-out cubic
	k := 1 - math.Pow(1-t, 3)
	return target * k
}

var (
	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa"))
	barTrackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e293b"))
	legendStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
)

// RenderSizeBar draws a bar of width cells filled to pct percent.
func RenderSizeBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barTrackStyle.Render(strings.Repeat("░", width-filled))
}

// Segment is one slice of the atmosphere chart.
type Segment struct {
	Gas   catalog.Gas
	Color string
	Cells int
}

// AtmosphereSegments splits width cells among the gases in proportion to
// their share. Every listed gas gets at least one cell when width allows.
func AtmosphereSegments(r catalog.Record, width int) []Segment {
	gases := r.Gases()
	if len(gases) == 0 || width <= 0 {
		return nil
	}

	var total float64
	for _, g := range gases {
		total += g.Percent
	}

	segs := make([]Segment, len(gases))
	used := 0
	for i, g := range gases {
		cells := 0
		if total > 0 {
			cells = int(math.Round(g.Percent / total * float64(width)))
		}
		if cells == 0 && width >= len(gases) {
			cells = 1
		}
		segs[i] = Segment{Gas: g, Color: Palette[i%len(Palette)], Cells: cells}
		used += cells
	}

	// Rounding drift goes to (or comes from) the largest segment.
	segs[0].Cells += width - used
	if segs[0].Cells < 0 {
		segs[0].Cells = 0
	}
	return segs
}

// RenderAtmosphere draws the proportion bar and a legend.
func RenderAtmosphere(r catalog.Record, width int) string {
	segs := AtmosphereSegments(r, width)
	if len(segs) == 0 {
		return legendStyle.Render("No atmosphere data")
	}

	var bar strings.Builder
	for _, s := range segs {
		bar.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Color)).
			Render(strings.Repeat("█", s.Cells)))
	}

	lines := []string{bar.String()}
	for _, s := range segs {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("■")
		lines = append(lines, swatch+" "+legendStyle.Render(fmt.Sprintf("%s %s%%", s.Gas.Name, strconv.FormatFloat(s.Gas.Percent, 'f', -1, 64))))
	}
	return strings.Join(lines, "\n")
}
