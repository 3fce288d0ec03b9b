// Package catalog loads, filters and selects planet records.
package catalog

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReferenceID is the planet every size comparison is made against.
const ReferenceID = "earth"

// ReferenceRadiusKm is Earth's mean radius.
const ReferenceRadiusKm = 6371.0

// Record is a single planet entry. Records are never mutated after loading.
type Record struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Color       string             `json:"color"`
	Distance    float64            `json:"distance"` // million km from the Sun
	Radius      float64            `json:"radius"`   // km
	Atmosphere  map[string]float64 `json:"atmosphere,omitempty"`
	Description string             `json:"description,omitempty"`
}

// HexColor returns the color without the leading '#'.
func (r Record) HexColor() string {
	return strings.TrimPrefix(r.Color, "#")
}

// Gas is one atmosphere component.
type Gas struct {
	Name    string
	Percent float64
}

// Gases returns the atmosphere composition sorted by descending share,
// ties broken by name so the order is stable across map iterations.
func (r Record) Gases() []Gas {
	gases := make([]Gas, 0, len(r.Atmosphere))
	for name, pct := range r.Atmosphere {
		gases = append(gases, Gas{Name: name, Percent: pct})
	}
	sort.Slice(gases, func(i, j int) bool {
		if gases[i].Percent != gases[j].Percent {
			return gases[i].Percent > gases[j].Percent
		}
		return gases[i].Name < gases[j].Name
	})
	return gases
}

// SizeRatio returns the radius relative to Earth.
func (r Record) SizeRatio() float64 {
	return r.Radius / ReferenceRadiusKm
}

// Summary is the one-line card subtitle: "type • distance mln km".
func (r Record) Summary() string {
	return r.Type + " • " + FormatDistance(r.Distance) + " mln km"
}

// FormatDistance renders a distance the way the catalog stores it.
func FormatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the invariants every consumer relies on.
func (r Record) Validate() error {
	if r.ID == "" {
		return errors.New("record has empty id")
	}
	if r.Name == "" {
		return errors.Newf("record %q has empty name", r.ID)
	}
	if !hexColorRe.MatchString(r.Color) {
		return errors.Newf("record %q has invalid color %q", r.ID, r.Color)
	}
	for gas, pct := range r.Atmosphere {
		if pct < 0 || pct > 100 {
			return errors.Newf("record %q: %s share %.2f out of range", r.ID, gas, pct)
		}
	}
	return nil
}

// Decode parses a catalog document. Both a bare array and an object with a
// "data" array are accepted.
func Decode(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty catalog document")
	}

	var records []Record
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, errors.Wrap(err, "unmarshal catalog array")
		}
	} else {
		var wrapper struct {
			Data *[]Record `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, errors.Wrap(err, "unmarshal catalog object")
		}
		if wrapper.Data == nil {
			return nil, errors.New("catalog object has no data array")
		}
		records = *wrapper.Data
	}

	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, errors.Newf("duplicate record id %q", r.ID)
		}
		seen[r.ID] = true
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Find returns the record with the given id.
func Find(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
