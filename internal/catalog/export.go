package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Export is the JSON-serializable representation of a filtered atlas.
type Export struct {
	GeneratedAt time.Time `json:"generated_at"`
	Origin      Origin    `json:"origin,omitempty"`
	Filter      struct {
		Type  string  `json:"type,omitempty"`
		Query string  `json:"query,omitempty"`
		Sort  SortKey `json:"sort,omitempty"`
	} `json:"filter"`
	Planets []Record `json:"planets"`
}

// NewExport builds an export for records produced by filter f.
func NewExport(records []Record, f Filter, origin Origin, at time.Time) *Export {
	e := &Export{GeneratedAt: at, Origin: origin, Planets: records}
	e.Filter.Type = f.Type
	e.Filter.Query = f.Query
	e.Filter.Sort = f.Sort
	if e.Planets == nil {
		e.Planets = []Record{}
	}
	return e
}

// WriteJSON writes the export as indented JSON.
func (e *Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteTable writes a text table of records.
func WriteTable(w io.Writer, records []Record, origin Origin) {
	fmt.Fprintf(w, "Planet Atlas (%d planets, %s source)\n", len(records), origin)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(records) == 0 {
		fmt.Fprintln(w, "No planets match")
		return
	}

	fmt.Fprintf(w, "%-10s %-12s %-12s %12s %10s %8s\n",
		"ID", "Name", "Type", "Distance", "Radius", "×Earth")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	for _, r := range records {
		fmt.Fprintf(w, "%-10s %-12s %-12s %8s mkm %7.0f km %7.2fx\n",
			truncateStr(r.ID, 10),
			truncateStr(r.Name, 12),
			truncateStr(r.Type, 12),
			FormatDistance(r.Distance),
			r.Radius,
			r.SizeRatio(),
		)
	}
}

// WriteWeekCard prints the planet-of-the-week card.
func WriteWeekCard(w io.Writer, r Record, now time.Time) {
	fmt.Fprintf(w, "Planet of the week #%d: %s\n", WeekIndex(now), r.Name)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	} else {
		fmt.Fprintf(w, "%s — %s mln km\n", r.Type, FormatDistance(r.Distance))
	}
	fmt.Fprintf(w, "Open: ls-atlas planet %s\n", r.ID)
	fmt.Fprintf(w, "Next rotation: %s\n", NextRotation(now).Format(time.RFC1123))
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
