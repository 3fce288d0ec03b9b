package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// WriteSnapshot prints the popup and trail summary.
func WriteSnapshot(w io.Writer, s Snapshot) {
	if !s.HasFix {
		fmt.Fprintln(w, "No position yet")
		if s.LastError != nil {
			fmt.Fprintf(w, "Last error: %v\n", s.LastError)
		}
		return
	}
	fmt.Fprintln(w, s.Popup)
	fmt.Fprintf(w, "Trail: %d points\n", len(s.Trail))
	if s.LastError != nil {
		fmt.Fprintf(w, "Last poll failed at %s: %v\n", s.LastPoll.UTC().Format(time.RFC1123), s.LastError)
	}
}

// WriteGeoJSON writes the trail and current position as a GeoJSON
// FeatureCollection.
func WriteGeoJSON(w io.Writer, points []Position) error {
	data, err := json.MarshalIndent(FeatureCollection(points), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
