package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f8fafc"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#14B8A6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("#14B8A6"))
)

// cardWidth is the outer width of a planet card.
const cardWidth = 26

// renderCard draws one planet card: a color swatch, the name, the
// "type • distance" line and where its picture comes from.
func renderCard(r catalog.Record, img imagery.Result, haveImg, selected bool) string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render("●")
	lines := []string{
		swatch + " " + titleStyle.Render(truncate(r.Name, cardWidth-6)),
		mutedStyle.Render(truncate(r.Summary(), cardWidth-4)),
		mutedStyle.Render(imageTag(img, haveImg)),
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(cardWidth - 2).Render(strings.Join(lines, "\n"))
}

// imageTag describes a resolved image in a few characters.
func imageTag(res imagery.Result, ok bool) string {
	if !ok {
		return "◌ image…"
	}
	switch {
	case res.Status == imagery.StatusUnresolved:
		return "✕ no image"
	case res.Placeholder():
		return "◇ placeholder"
	case imagery.IsLocal(res.URL):
		return "◆ local photo"
	default:
		return "◆ photo"
	}
}

// renderGrid lays cards out in rows that fit width.
func renderGrid(cards []string, width int) string {
	cols := width / (cardWidth + 1)
	if cols < 1 {
		cols = 1
	}
	var rows []string
	for i := 0; i < len(cards); i += cols {
		end := i + cols
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return strings.Join(rows, "\n")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
