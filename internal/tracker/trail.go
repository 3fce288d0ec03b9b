package tracker

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultTrailLen is how many recent positions the map keeps.
const DefaultTrailLen = 80

// Trail is a bounded FIFO of recent positions, oldest first. Pushing onto a
// full trail evicts the oldest point.
type Trail struct {
	points []Position
	max    int
}

// NewTrail creates a trail holding at most max points. A non-positive max
// uses DefaultTrailLen.
func NewTrail(max int) *Trail {
	if max <= 0 {
		max = DefaultTrailLen
	}
	return &Trail{points: make([]Position, 0, max), max: max}
}

// Push appends p, evicting the oldest point when over capacity.
func (t *Trail) Push(p Position) {
	t.points = append(t.points, p)
	if len(t.points) > t.max {
		t.points = t.points[len(t.points)-t.max:]
	}
}

// Points returns a copy of the buffer, oldest first.
func (t *Trail) Points() []Position {
	out := make([]Position, len(t.points))
	copy(out, t.points)
	return out
}

// Len returns the number of buffered points.
func (t *Trail) Len() int { return len(t.points) }

// Cap returns the capacity.
func (t *Trail) Cap() int { return t.max }

// LineString returns the trail as lon/lat geometry.
func (t *Trail) LineString() orb.LineString {
	return LineString(t.points)
}

// LineString converts positions to an orb line (X=lon, Y=lat).
func LineString(points []Position) orb.LineString {
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, orb.Point{p.Longitude, p.Latitude})
	}
	return ls
}

// FeatureCollection returns the trail and the latest position as GeoJSON.
func FeatureCollection(points []Position) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(points) == 0 {
		return fc
	}

	line := geojson.NewFeature(LineString(points))
	line.Properties["kind"] = "trail"
	line.Properties["points"] = len(points)
	fc.Append(line)

	last := points[len(points)-1]
	marker := geojson.NewFeature(orb.Point{last.Longitude, last.Latitude})
	marker.Properties["kind"] = "position"
	marker.Properties["altitude_km"] = last.Altitude
	marker.Properties["velocity_kmh"] = last.Velocity
	marker.Properties["timestamp"] = last.Time().Format("2006-01-02T15:04:05Z")
	fc.Append(marker)
	return fc
}
