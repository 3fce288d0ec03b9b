package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
)

// SearchDebounce is how long typing must pause before the query applies.
const SearchDebounce = 220 * time.Millisecond

// searchDebounceMsg fires after a pause in typing. Only the message whose
// seq matches the latest keystroke applies the query.
type searchDebounceMsg struct {
	seq int
}

// AtlasModel is the filterable, sortable planet grid.
type AtlasModel struct {
	width  int
	height int

	records []catalog.Record
	images  map[string]imagery.Result

	types   []string // TypeAll first, then catalog types
	typeIdx int
	sortIdx int

	search    textinput.Model
	searching bool
	query     string // applied query, lags the input by SearchDebounce
	seq       int

	visible []catalog.Record
	cursor  int
}

// NewAtlasModel creates a new atlas model.
func NewAtlasModel() AtlasModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search planets"
	ti.CharLimit = 64

	return AtlasModel{
		search: ti,
		types:  []string{catalog.TypeAll},
	}
}

// Init implements the Bubble Tea model interface.
func (m AtlasModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m AtlasModel) SetSize(width, height int) AtlasModel {
	m.width = width
	m.height = height
	m.search.Width = width / 3
	return m
}

// SetRecords replaces the catalog and reapplies the filter. The grid starts
// nearest first; "catalog order" in the sort cycle means this order.
func (m AtlasModel) SetRecords(records []catalog.Record) AtlasModel {
	m.records = catalog.ByDistance(records)
	m.types = append([]string{catalog.TypeAll}, catalog.Types(m.records)...)
	if m.typeIdx >= len(m.types) {
		m.typeIdx = 0
	}
	return m.refresh()
}

// SetImages stores thumbnail resolution results.
func (m AtlasModel) SetImages(images map[string]imagery.Result) AtlasModel {
	m.images = images
	return m
}

// Filter returns the filter currently applied to the grid.
func (m AtlasModel) Filter() catalog.Filter {
	return catalog.Filter{
		Type:  m.types[m.typeIdx],
		Query: m.query,
		Sort:  catalog.SortKeys[m.sortIdx],
	}
}

// Visible returns the records on screen, in display order.
func (m AtlasModel) Visible() []catalog.Record {
	return m.visible
}

// Searching reports whether the search field has focus.
func (m AtlasModel) Searching() bool {
	return m.searching
}

// Selected returns the record under the cursor.
func (m AtlasModel) Selected() (catalog.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return catalog.Record{}, false
	}
	return m.visible[m.cursor], true
}

func (m AtlasModel) refresh() AtlasModel {
	m.visible = catalog.Apply(m.records, m.Filter())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m AtlasModel) columns() int {
	cols := m.width / (cardWidth + 1)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Update handles messages.
func (m AtlasModel) Update(msg tea.Msg) (AtlasModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchDebounceMsg:
		if msg.seq == m.seq && m.query != m.search.Value() {
			m.query = m.search.Value()
			m = m.refresh()
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(m.types)
			m = m.refresh()
		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(catalog.SortKeys)
			m = m.refresh()
		case "left":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "up", "k":
			if m.cursor-m.columns() >= 0 {
				m.cursor -= m.columns()
			}
		case "down", "j":
			if m.cursor+m.columns() < len(m.visible) {
				m.cursor += m.columns()
			}
		case "esc":
			if m.query != "" {
				m.search.SetValue("")
				m.query = ""
				m = m.refresh()
			}
		case "enter":
			if r, ok := m.Selected(); ok {
				id := r.ID
				return m, func() tea.Msg { return OpenPlanetMsg{ID: id} }
			}
		}

	default:
		if m.searching {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m AtlasModel) updateSearch(msg tea.KeyMsg) (AtlasModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab":
		m.searching = false
		m.search.Blur()
		// Leaving the field applies the query at once.
		m.seq++
		if m.query != m.search.Value() {
			m.query = m.search.Value()
			m = m.refresh()
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	m.seq++
	seq := m.seq
	debounce := tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
	return m, tea.Batch(cmd, debounce)
}

// View renders the atlas.
func (m AtlasModel) View() string {
	var b strings.Builder

	f := m.Filter()
	b.WriteString("  ")
	b.WriteString(m.search.View())
	b.WriteString("   ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("type: %s  sort: %s  %d/%d",
		f.Type, f.Sort.Label(), len(m.visible), len(m.records))))
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		b.WriteString(mutedStyle.Render("  Loading planets…"))
		return b.String()
	}
	if len(m.visible) == 0 {
		b.WriteString(mutedStyle.Render("  No planets match."))
		return b.String()
	}

	cards := make([]string, len(m.visible))
	for i, r := range m.visible {
		res, ok := m.images[r.ID]
		cards[i] = renderCard(r, res, ok, i == m.cursor)
	}
	b.WriteString(renderGrid(cards, m.width))
	return b.String()
}
