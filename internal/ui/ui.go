// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/state"
	"github.com/litescript/ls-atlas/internal/version"
	"github.com/litescript/ls-atlas/internal/viewer"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewHome ViewMode = iota
	ViewAtlas
	ViewPlanet
	ViewTracker
)

// textureTimeout bounds one texture chain walk.
const textureTimeout = 30 * time.Second

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers spinner updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals new state is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ImagesResolvedMsg carries image resolution results keyed by planet id.
	ImagesResolvedMsg struct {
		Target  ImageTarget
		Results map[string]imagery.Result
	}

	// OpenPlanetMsg requests the detail view for a planet id.
	OpenPlanetMsg struct {
		ID string
	}

	// textureLoadedMsg carries a resolved surface for the planet view.
	textureLoadedMsg struct {
		id      string
		texture viewer.Texture
		result  imagery.Result
	}
)

// ImageTarget names the widget a batch of image results belongs to.
type ImageTarget int

const (
	ImagesAtlas   ImageTarget = iota // grid thumbnails
	ImagesPreview                    // landing preview strip
	ImagesWeek                       // planet-of-the-week card
)

// TextureFunc resolves the surface map for a planet.
type TextureFunc func(ctx context.Context, rec catalog.Record) (viewer.Texture, imagery.Result)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state    *state.Manager
	textures TextureFunc

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int
	now      time.Time

	// Sub-models
	home        HomeModel
	atlas       AtlasModel
	planet      PlanetModel
	trackerView TrackerModel

	snapshot state.Snapshot
}

// New creates a new root UI model. textures may be nil, in which case
// planets are drawn in their catalog color.
func New(stateMgr *state.Manager, textures TextureFunc) Model {
	return Model{
		state:       stateMgr,
		textures:    textures,
		viewMode:    ViewHome,
		home:        NewHomeModel(),
		atlas:       NewAtlasModel(),
		planet:      NewPlanetModel(),
		trackerView: NewTrackerModel(),
	}
}

// WithPlanet starts the UI on the detail view for id.
func (m Model) WithPlanet(id string) Model {
	m.viewMode = ViewPlanet
	m.planet = m.planet.Open(m.snapshot.Records, id, time.Now())
	return m
}

// ActiveView returns the current view.
func (m Model) ActiveView() ViewMode {
	return m.viewMode
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		frameCmd(),
		m.atlas.Init(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The search field owns the keyboard while focused.
		if m.viewMode == ViewAtlas && m.atlas.Searching() && msg.String() != "ctrl+c" {
			cmds = append(cmds, m.updateActiveView(msg))
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "h":
			m.viewMode = ViewHome
		case "2", "a":
			m.viewMode = ViewAtlas
		case "3", "p":
			m.viewMode = ViewPlanet
		case "4", "i":
			m.viewMode = ViewTracker

		case "tab":
			m.viewMode = (m.viewMode + 1) % 4

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}
		if m.viewMode == ViewPlanet && !m.planet.HasRecord() {
			m.planet = m.planet.Open(m.snapshot.Records, m.planet.ID(), time.Now())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentHeight := msg.Height - m.headerHeight() - 2
		if contentHeight < 5 {
			contentHeight = 5
		}
		m.home = m.home.SetSize(msg.Width, contentHeight)
		m.atlas = m.atlas.SetSize(msg.Width, contentHeight)
		m.planet = m.planet.SetSize(msg.Width, contentHeight)
		m.trackerView = m.trackerView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.state != nil {
			m.applySnapshot(m.state.Snapshot(), time.Time(msg))
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case frameMsg:
		cmds = append(cmds, frameCmd())
		m.planet = m.planet.Advance(time.Time(msg))

	case DataUpdateMsg:
		m.applySnapshot(msg.Snapshot, time.Now())

	case ImagesResolvedMsg:
		switch msg.Target {
		case ImagesAtlas:
			m.atlas = m.atlas.SetImages(msg.Results)
		case ImagesPreview:
			m.home = m.home.SetPreviewImages(msg.Results)
		case ImagesWeek:
			m.home = m.home.SetWeekImages(msg.Results)
		}

	case searchDebounceMsg:
		var cmd tea.Cmd
		m.atlas, cmd = m.atlas.Update(msg)
		cmds = append(cmds, cmd)

	case OpenPlanetMsg:
		m.viewMode = ViewPlanet
		m.planet = m.planet.Open(m.snapshot.Records, msg.ID, time.Now())

	case textureLoadedMsg:
		m.planet = m.planet.SetTexture(msg.id, msg.texture, msg.result)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	if m.textures != nil && m.planet.NeedsTexture() {
		m.planet = m.planet.MarkLoading()
		cmds = append(cmds, m.loadTexture(m.planet.Record()))
	}

	return m, tea.Batch(cmds...)
}

// applySnapshot pushes fresh state into every sub-model. The catalog views
// are only rebuilt when a new load result arrived.
func (m *Model) applySnapshot(snap state.Snapshot, now time.Time) {
	catalogChanged := !snap.CatalogAt.Equal(m.snapshot.CatalogAt) || len(snap.Records) != len(m.snapshot.Records)
	m.snapshot = snap
	m.now = now
	m.home = m.home.UpdateData(snap, now)
	if catalogChanged {
		m.atlas = m.atlas.SetRecords(snap.Records)
		m.planet = m.planet.SetRecords(snap.Records, now)
	}
	m.trackerView = m.trackerView.UpdateData(snap.Tracker, now)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewAtlas:
		m.atlas, cmd = m.atlas.Update(msg)
	case ViewPlanet:
		m.planet, cmd = m.planet.Update(msg)
	case ViewTracker:
		m.trackerView, cmd = m.trackerView.Update(msg)
	}
	return cmd
}

func (m Model) loadTexture(rec catalog.Record) tea.Cmd {
	fetch := m.textures
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), textureTimeout)
		defer cancel()
		tex, res := fetch(ctx, rec)
		return textureLoadedMsg{id: rec.ID, texture: tex, result: res}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewHome:
		content = m.home.View()
	case ViewAtlas:
		content = m.atlas.View()
	case ViewPlanet:
		content = m.planet.View()
	case ViewTracker:
		content = m.trackerView.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

// compactHeight is the terminal height below which the logo is dropped.
const compactHeight = 36

func (m Model) headerHeight() int {
	if m.height < compactHeight {
		return 2
	}
	return 12
}

func (m Model) renderHeader() string {
	if m.height < compactHeight {
		return "\n" + m.renderTabs() + "\n"
	}
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗       █████╗ ████████╗██╗      █████╗ ███████╗`,
		`  ██║     ██╔════╝      ██╔══██╗╚══██╔══╝██║     ██╔══██╗██╔════╝`,
		`  ██║     ███████╗█████╗███████║   ██║   ██║     ███████║███████╗`,
		`  ██║     ╚════██║╚════╝██╔══██║   ██║   ██║     ██╔══██║╚════██║`,
		`  ███████╗███████║      ██║  ██║   ██║   ███████╗██║  ██║███████║`,
		`  ╚══════╝╚══════╝      ╚═╝  ╚═╝   ╚═╝   ╚══════╝╚═╝  ╚═╝╚══════╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Solar System Atlas · Planets, Sky and Station"))
	b.WriteString("\n")

	copyright := fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)
	b.WriteString(muted.Render(copyright))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep ocean blue through teal to a sandy Mars orange, darker toward the
// bottom rows.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#3B82F6) -> Teal (#14B8A6) -> Amber (#F59E0B) -> Orange (#F97316)
	var r, g, b float64

	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(20-59)
		g = 130 + t*(184-130)
		b = 246 + t*(166-246)
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 20 + t*(245-20)
		g = 184 + t*(158-184)
		b = 166 + t*(11-166)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 245 + t*(249-245)
		g = 158 + t*(115-158)
		b = 11 + t*(22-11)
	}

	brightnessFactor := 1.0 - (yRatio * 0.5)
	r *= brightnessFactor
	g *= brightnessFactor
	b *= brightnessFactor

	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Home", "[2] Atlas", "[3] Planet", "[4] ISS"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	flash, flashing := flashEvent(m.snapshot.Events, m.now)
	switch {
	case flashing:
		status = warnStyle.Render("▲ " + truncate(eventText(flash), m.width/2))
	case m.snapshot.CatalogErr != nil && len(m.snapshot.Records) == 0:
		status = errorStyle.Render("catalog: " + m.snapshot.CatalogErr.Error())
	case m.snapshot.Origin != "":
		status = accentStyle.Render("●") + dimStyle.Render(fmt.Sprintf(" %d planets (%s)", len(m.snapshot.Records), m.snapshot.Origin))
		if m.snapshot.Tracker.Polls > 0 {
			status += dimStyle.Render(fmt.Sprintf(" · ISS polls %d", m.snapshot.Tracker.Polls))
		}
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" Loading planets...")
	}

	var help string
	switch m.viewMode {
	case ViewAtlas:
		help = dimStyle.Render("/: search | t: type | s: sort | arrows: move | enter: open")
	case ViewPlanet:
		help = dimStyle.Render("drag: rotate | wheel or +/-: zoom | arrows: spin | [/]: planet")
	case ViewTracker:
		help = dimStyle.Render("updates every " + m.trackerInterval().String())
	default:
		help = dimStyle.Render("enter: planet of the week | tab: switch view | q: quit")
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func (m Model) trackerInterval() time.Duration {
	if m.state == nil {
		return 0
	}
	return m.state.RefreshInterval()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
