package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/viewer"
)

const (
	// planetFrameInterval drives the sphere at about 30 fps.
	planetFrameInterval = time.Second / 30

	// maxFrameGap caps dt after the program was suspended.
	maxFrameGap = 250 * time.Millisecond

	// Terminal cells map to pointer pixels at roughly this size.
	cellPixelsX = 8
	cellPixelsY = 16

	// wheelStep is one wheel notch in pointer units.
	wheelStep = 100

	// nudge is the spin added by an arrow key, in radians per frame.
	nudge = 0.02

	// sidePanelWidth is the width of the text column beside the sphere.
	sidePanelWidth = 40
)

// frameMsg advances the sphere animation.
type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(planetFrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// PlanetModel is the detail view: a rotating sphere and a side panel with
// size, atmosphere and description.
type PlanetModel struct {
	width  int
	height int

	records   []catalog.Record
	id        string // requested id, "" means earth
	opened    bool
	record    catalog.Record
	hasRecord bool

	view      viewer.State
	pending   viewer.Input
	dragging  bool
	lastX     int
	lastY     int
	lastFrame time.Time
	now       time.Time
	shownAt   time.Time

	texture    viewer.Texture
	textureFor string
	textureRes imagery.Result
	loading    bool

	descFor   string
	descWidth int
	desc      string
}

// NewPlanetModel creates a new planet model.
func NewPlanetModel() PlanetModel {
	return PlanetModel{view: viewer.NewState()}
}

// SetSize updates the viewport size.
func (m PlanetModel) SetSize(width, height int) PlanetModel {
	m.width = width
	m.height = height
	return m.withDescription()
}

// Open shows the planet with the given id. The record is resolved now if the
// catalog is loaded, otherwise as soon as it arrives.
func (m PlanetModel) Open(records []catalog.Record, id string, now time.Time) PlanetModel {
	m.id = id
	m.opened = true
	m.hasRecord = false
	if len(records) > 0 {
		m.records = records
	}
	return m.resolve(now)
}

// SetRecords updates the catalog.
func (m PlanetModel) SetRecords(records []catalog.Record, now time.Time) PlanetModel {
	m.records = records
	if m.opened && !m.hasRecord {
		return m.resolve(now)
	}
	return m
}

func (m PlanetModel) resolve(now time.Time) PlanetModel {
	r, ok := viewer.Resolve(m.records, m.id)
	if !ok {
		return m
	}
	if m.hasRecord && r.ID == m.record.ID {
		return m
	}
	m.record = r
	m.hasRecord = true
	m.view = viewer.NewState()
	m.pending = viewer.Input{}
	m.shownAt = now
	m.now = now
	m.texture = nil
	m.textureFor = ""
	m.loading = false
	return m.withDescription()
}

// ID returns the requested planet id.
func (m PlanetModel) ID() string {
	return m.id
}

// HasRecord reports whether a planet is on screen.
func (m PlanetModel) HasRecord() bool {
	return m.hasRecord
}

// Record returns the planet on screen.
func (m PlanetModel) Record() catalog.Record {
	return m.record
}

// State returns the viewer state.
func (m PlanetModel) State() viewer.State {
	return m.view
}

// NeedsTexture reports whether a surface map should be requested.
func (m PlanetModel) NeedsTexture() bool {
	return m.hasRecord && !m.loading && m.textureFor != m.record.ID
}

// MarkLoading records that a texture request is in flight.
func (m PlanetModel) MarkLoading() PlanetModel {
	m.loading = true
	return m
}

// SetTexture installs a loaded surface. Stale results for a planet that
// is no longer shown are dropped.
func (m PlanetModel) SetTexture(id string, tex viewer.Texture, res imagery.Result) PlanetModel {
	if id != m.record.ID {
		return m
	}
	m.texture = tex
	m.textureFor = id
	m.textureRes = res
	m.loading = false
	return m
}

// Advance steps the animation to t with the input gathered since the last
// frame.
func (m PlanetModel) Advance(t time.Time) PlanetModel {
	var dt time.Duration
	if !m.lastFrame.IsZero() {
		dt = t.Sub(m.lastFrame)
		if dt > maxFrameGap {
			dt = maxFrameGap
		}
	}
	m.lastFrame = t
	m.now = t

	in := m.pending
	in.Dragging = m.dragging
	m.view = viewer.Step(m.view, dt, in)
	m.pending = viewer.Input{}
	return m
}

// Update handles messages.
func (m PlanetModel) Update(msg tea.Msg) (PlanetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.pending.Wheel -= wheelStep
		case msg.Button == tea.MouseButtonWheelDown:
			m.pending.Wheel += wheelStep
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.dragging = true
			m.lastX, m.lastY = msg.X, msg.Y
		case msg.Action == tea.MouseActionMotion && m.dragging:
			m.pending.DragDX += float64((msg.X - m.lastX) * cellPixelsX)
			m.pending.DragDY += float64((msg.Y - m.lastY) * cellPixelsY)
			m.lastX, m.lastY = msg.X, msg.Y
		case msg.Action == tea.MouseActionRelease:
			m.dragging = false
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "left":
			m.view.VelY -= nudge
		case "right":
			m.view.VelY += nudge
		case "up":
			m.view.VelX -= nudge
		case "down":
			m.view.VelX += nudge
		case "+", "=":
			m.pending.Wheel -= wheelStep
		case "-", "_":
			m.pending.Wheel += wheelStep
		case "r":
			m.view = viewer.NewState()
		case "[", "]":
			return m.cycle(msg.String() == "]"), nil
		}
	}
	return m, nil
}

// cycle moves to the next or previous planet in catalog order.
func (m PlanetModel) cycle(forward bool) PlanetModel {
	if !m.hasRecord || len(m.records) == 0 {
		return m
	}
	idx := 0
	for i, r := range m.records {
		if r.ID == m.record.ID {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(m.records)
	} else {
		idx = (idx - 1 + len(m.records)) % len(m.records)
	}
	return m.Open(m.records, m.records[idx].ID, m.now)
}

// View renders the detail view.
func (m PlanetModel) View() string {
	if !m.hasRecord {
		if m.opened && len(m.records) == 0 {
			return mutedStyle.Render("  Loading planets…")
		}
		return mutedStyle.Render("  Pick a planet in the atlas (2) and press enter.")
	}

	side := m.panelWidth()
	sphereW := m.width - side - 2
	sphereH := m.height
	if sphereW < 10 || sphereH < 5 {
		return m.renderPanel(m.width)
	}

	frame := viewer.Rasterize(m.view, sphereW, sphereH, m.surface(), viewer.Options{
		Halo:      viewer.HaloColor(m.record.ID),
		Stars:     true,
		StarDrift: m.view.RotY * 180 / math.Pi,
	})
	return lipgloss.JoinHorizontal(lipgloss.Top, frame.String(), "  ", m.renderPanel(side))
}

// surface returns the loaded texture or the record's color while loading.
func (m PlanetModel) surface() viewer.Texture {
	if m.texture != nil {
		return m.texture
	}
	c, err := imagery.ParseHex(m.record.Color)
	if err != nil {
		return imagery.Solid{R: 0x33, G: 0x41, B: 0x55, A: 0xff}
	}
	return imagery.Solid(c)
}

func (m PlanetModel) renderPanel(width int) string {
	r := m.record
	inner := width - 2
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Name))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(r.Summary()))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Size"))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(viewer.SizeLabel(r)))
	b.WriteString("\n")
	pct := viewer.SizeBarProgress(r, m.now.Sub(m.shownAt))
	b.WriteString(viewer.RenderSizeBar(pct, inner))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Atmosphere"))
	b.WriteString("\n")
	b.WriteString(viewer.RenderAtmosphere(r, inner))
	b.WriteString("\n\n")

	b.WriteString(mutedStyle.Render(m.surfaceLabel()))
	b.WriteString("\n")
	b.WriteString(m.desc)
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m PlanetModel) surfaceLabel() string {
	switch {
	case m.texture == nil && m.loading:
		return "surface: loading…"
	case m.texture == nil:
		return "surface: catalog color"
	case m.textureRes.Status != imagery.StatusResolved:
		return fmt.Sprintf("surface: catalog color (%d sources failed)", len(m.textureRes.Attempts))
	case m.textureRes.Placeholder():
		return "surface: placeholder"
	case imagery.IsLocal(m.textureRes.URL):
		return "surface: local map"
	default:
		return "surface: remote map"
	}
}

func (m PlanetModel) panelWidth() int {
	if m.width < sidePanelWidth*2 {
		return m.width / 2
	}
	return sidePanelWidth
}

// withDescription re-renders the description when the planet or the panel
// width changed.
func (m PlanetModel) withDescription() PlanetModel {
	if !m.hasRecord {
		return m
	}
	width := m.panelWidth() - 2
	if width < 10 {
		width = 10
	}
	if m.descFor == m.record.ID && m.descWidth == width {
		return m
	}
	m.descFor = m.record.ID
	m.descWidth = width
	m.desc = m.description(width)
	return m
}

// description renders the record's description as markdown, falling back
// to plain text if the renderer fails.
func (m PlanetModel) description(width int) string {
	if m.record.Description == "" {
		return ""
	}
	md := "### About " + m.record.Name + "\n\n" + m.record.Description
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(m.record.Description)
	}
	out, err := r.Render(md)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(m.record.Description)
	}
	return strings.TrimSpace(out)
}
