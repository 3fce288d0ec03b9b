package apod

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f8fafc"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa")).
			Underline(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0b1020")).
			Background(lipgloss.Color("#f6e05e")).
			Padding(0, 1)
)

// Render draws the widget panel at the given outer width.
func Render(f Featured, width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var lines []string
	header := titleStyle.Render("Picture of the day")
	if f.Source == SourceProxy {
		header += " " + mutedStyle.Render("(via relay)")
	}
	lines = append(lines, header, "")

	switch f.Kind {
	case KindImage:
		lines = append(lines, titleStyle.Render(f.Title))
		if f.Date != "" {
			lines = append(lines, mutedStyle.Render(f.Date))
		}
		lines = append(lines, linkStyle.Render(f.URL))
	case KindVideo:
		lines = append(lines,
			badgeStyle.Render("VIDEO")+" "+titleStyle.Render(f.Title),
			"Watch: "+linkStyle.Render(f.Link))
	default:
		lines = append(lines,
			mutedStyle.Render(f.Title),
			"Open NASA APOD: "+linkStyle.Render(f.Link))
	}

	body := lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
	return panelStyle.Render(body)
}

// WriteFeatured prints the widget content without styling.
func WriteFeatured(w io.Writer, f Featured) {
	switch f.Kind {
	case KindImage:
		fmt.Fprintf(w, "Picture of the day: %s\n", f.Title)
		if f.Date != "" {
			fmt.Fprintf(w, "Date: %s\n", f.Date)
		}
		fmt.Fprintf(w, "Image: %s\n", f.URL)
		if f.Link != "" {
			fmt.Fprintf(w, "HD: %s\n", f.Link)
		}
	case KindVideo:
		fmt.Fprintf(w, "Picture of the day (video): %s\n", f.Title)
		fmt.Fprintf(w, "Watch: %s\n", f.Link)
	default:
		fmt.Fprintln(w, f.Title)
		fmt.Fprintf(w, "Open NASA APOD: %s\n", f.Link)
	}
	fmt.Fprintf(w, "Source: %s\n", f.Source)
	for _, err := range f.Errors {
		fmt.Fprintf(w, "  ! %v\n", err)
	}
}
