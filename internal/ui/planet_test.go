package ui

import (
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/viewer"
)

var epoch = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestPlanet_OpenResolvesID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"empty id shows earth", "", "earth"},
		{"known id", "saturn", "saturn"},
		{"unknown id shows first record", "vulcan", "mars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPlanetModel().Open(testRecords(), tt.id, epoch)
			if !m.HasRecord() {
				t.Fatal("expected a record")
			}
			if got := m.Record().ID; got != tt.want {
				t.Errorf("record = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPlanet_OpenBeforeCatalogWaits(t *testing.T) {
	m := NewPlanetModel().Open(nil, "neptune", epoch)
	if m.HasRecord() {
		t.Fatal("no record without a catalog")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("view should say loading, got %q", m.View())
	}

	m = m.SetRecords(testRecords(), epoch)
	if m.Record().ID != "neptune" {
		t.Errorf("record after catalog = %s, want neptune", m.Record().ID)
	}
	if !m.NeedsTexture() {
		t.Error("a newly shown planet needs its texture")
	}
}

func TestPlanet_DragRotatesAndWheelZooms(t *testing.T) {
	m := NewPlanetModel().SetSize(100, 30).Open(testRecords(), "earth", epoch)
	m = m.Advance(epoch)
	start := m.State()

	m, _ = m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 15, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = m.Advance(epoch.Add(viewer.FrameInterval))

	if !m.State().Dragging {
		t.Error("state should be dragging")
	}
	wantDelta := 5 * cellPixelsX * viewer.Sensitivity
	if got := m.State().RotY - start.RotY; got < wantDelta {
		t.Errorf("drag rotated by %f, want at least %f", got, wantDelta)
	}

	m, _ = m.Update(tea.MouseMsg{X: 15, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	for i := 0; i < 50; i++ {
		m, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
		m = m.Advance(epoch.Add(time.Duration(i+2) * viewer.FrameInterval))
		if z := m.State().Zoom; z < viewer.MinZoom || z > viewer.MaxZoom {
			t.Fatalf("zoom %f out of range", z)
		}
	}
	if m.State().TargetZoom != viewer.MaxZoom {
		t.Errorf("target zoom = %f, want clamped to %f", m.State().TargetZoom, viewer.MaxZoom)
	}
}

func TestPlanet_AdvanceCapsLongGaps(t *testing.T) {
	m := NewPlanetModel().Open(testRecords(), "earth", epoch)
	m = m.Advance(epoch)
	m = m.Advance(epoch.Add(time.Hour))

	maxSpin := viewer.AutoRotate * float64(maxFrameGap) / float64(viewer.FrameInterval)
	if got := m.State().RotY; got > maxSpin+1e-9 {
		t.Errorf("rotation after a long pause = %f, want at most %f", got, maxSpin)
	}
}

func TestPlanet_CycleWraps(t *testing.T) {
	m := NewPlanetModel().Open(testRecords(), "saturn", epoch)
	m, _ = m.Update(runes("]"))
	if m.Record().ID != "mars" {
		t.Errorf("next after saturn = %s, want mars", m.Record().ID)
	}
	m, _ = m.Update(runes("["))
	if m.Record().ID != "saturn" {
		t.Errorf("previous after mars = %s, want saturn", m.Record().ID)
	}
}

func TestPlanet_StaleTextureIgnored(t *testing.T) {
	m := NewPlanetModel().Open(testRecords(), "earth", epoch).MarkLoading()
	m = m.Open(testRecords(), "mars", epoch)

	red := imagery.Solid(color.RGBA{R: 255, A: 255})
	m = m.SetTexture("earth", red, imagery.Result{Status: imagery.StatusResolved})
	if !m.NeedsTexture() {
		t.Error("texture for another planet must not satisfy mars")
	}

	m = m.MarkLoading().SetTexture("mars", red, imagery.Result{Status: imagery.StatusResolved, URL: "assets/textures/mars.jpg"})
	if m.NeedsTexture() {
		t.Error("mars texture should be installed")
	}
	if got := m.surfaceLabel(); got != "surface: local map" {
		t.Errorf("surface label = %q", got)
	}
}

func TestPlanet_ViewShowsPanel(t *testing.T) {
	m := NewPlanetModel().SetSize(100, 24).Open(testRecords(), "earth", epoch)
	m = m.Advance(epoch.Add(time.Second))

	view := m.View()
	for _, want := range []string{"Earth", "1x Earth", "N2 78%", "Atmosphere"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = NewPlanetModel().SetSize(100, 24).Open(testRecords(), "mars", epoch)
	if !strings.Contains(m.View(), "No atmosphere data") {
		t.Error("mars has no atmosphere entries in the test catalog")
	}
}
