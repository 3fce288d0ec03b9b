package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/apod"
	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/state"
)

// PreviewCount is how many planets the landing page shows.
const PreviewCount = 6

var weekCardStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(lipgloss.Color("#F59E0B")).
	Padding(0, 1)

// HomeModel is the landing page: picture of the day, a preview strip of
// the catalog and the planet of the week.
type HomeModel struct {
	width  int
	height int

	snapshot state.Snapshot
	preview  map[string]imagery.Result
	week     map[string]imagery.Result
	now      time.Time
}

// NewHomeModel creates a new home model.
func NewHomeModel() HomeModel {
	return HomeModel{}
}

// SetSize updates the viewport size.
func (m HomeModel) SetSize(width, height int) HomeModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m HomeModel) UpdateData(snapshot state.Snapshot, now time.Time) HomeModel {
	m.snapshot = snapshot
	m.now = now
	return m
}

// SetPreviewImages stores the preview strip's thumbnail results.
func (m HomeModel) SetPreviewImages(images map[string]imagery.Result) HomeModel {
	m.preview = images
	return m
}

// SetWeekImages stores featured-image results for the week card.
func (m HomeModel) SetWeekImages(images map[string]imagery.Result) HomeModel {
	m.week = images
	return m
}

// Week returns the current planet of the week.
func (m HomeModel) Week() (catalog.Record, bool) {
	return catalog.SelectCurrent(m.snapshot.Records, m.now)
}

// Update handles messages.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if r, ok := m.Week(); ok {
			id := r.ID
			return m, func() tea.Msg { return OpenPlanetMsg{ID: id} }
		}
	}
	return m, nil
}

// View renders the landing page.
func (m HomeModel) View() string {
	var b strings.Builder

	left := m.width / 2
	if left < 40 {
		left = m.width
	}

	var top []string
	if m.snapshot.HasFeatured {
		top = append(top, apod.Render(m.snapshot.Featured, left-2))
	} else {
		top = append(top, cardStyle.Width(left-4).Render(mutedStyle.Render("Picture of the day: loading…")))
	}
	top = append(top, m.renderWeek(m.width-left-2))
	if left == m.width {
		b.WriteString(strings.Join(top, "\n"))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, top[0], " ", top[1]))
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("  Planets"))
	b.WriteString("\n")
	b.WriteString(m.renderPreview())
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("  Activity"))
	b.WriteString("\n")
	b.WriteString(renderActivity(m.snapshot.RecentEvents(ActivityCount), m.width))
	return b.String()
}

func (m HomeModel) renderPreview() string {
	if len(m.snapshot.Records) == 0 {
		if m.snapshot.CatalogErr != nil {
			return errorStyle.Render("  Planet data unavailable: " + m.snapshot.CatalogErr.Error())
		}
		return mutedStyle.Render("  Loading planets…")
	}

	preview := catalog.Preview(m.snapshot.Records, PreviewCount)
	cards := make([]string, len(preview))
	for i, r := range preview {
		res, ok := m.preview[r.ID]
		cards[i] = renderCard(r, res, ok, false)
	}
	return renderGrid(cards, m.width)
}

func (m HomeModel) renderWeek(width int) string {
	if width < 30 {
		width = 30
	}
	r, ok := m.Week()
	if !ok {
		return weekCardStyle.Width(width - 4).Render(mutedStyle.Render("Planet of the week: waiting for the catalog"))
	}

	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render("●")
	img, haveImg := m.week[r.ID]
	lines := []string{
		sectionStyle.Render(fmt.Sprintf("Planet of the week #%d", catalog.WeekIndex(m.now))),
		"",
		swatch + " " + titleStyle.Render(r.Name) + "  " + mutedStyle.Render(imageTag(img, haveImg)),
	}
	if r.Description != "" {
		lines = append(lines, r.Description)
	} else {
		lines = append(lines, mutedStyle.Render(r.Summary()))
	}
	lines = append(lines,
		"",
		mutedStyle.Render("Next: "+catalog.NextRotation(m.now).Format("Mon Jan 2 15:04 MST")),
		mutedStyle.Render("enter to explore"),
	)
	return weekCardStyle.Width(width - 4).Render(strings.Join(lines, "\n"))
}
