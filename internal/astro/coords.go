package astro

import (
	"math"
)

// GeoCoord is a geodetic position in degrees.
type GeoCoord struct {
	Lat float64 // -90..90
	Lon float64 // -180..180
}

// FromLatLon returns the unit vector for a latitude/longitude in degrees,
// in the same body frame SphereUV reads.
func FromLatLon(latDeg, lonDeg float64) Vec3 {
	lat, lon := degToRad(latDeg), degToRad(lonDeg)
	return Vec3{
		X: -math.Cos(lat) * math.Cos(lon),
		Y: math.Sin(lat),
		Z: math.Cos(lat) * math.Sin(lon),
	}
}

// ToLatLon is the inverse of FromLatLon for a unit vector.
func ToLatLon(v Vec3) GeoCoord {
	n := v.Normalized()
	return GeoCoord{
		Lat: radToDeg(math.Asin(clamp(n.Y, -1, 1))),
		Lon: NormalizeLon(radToDeg(math.Atan2(n.Z, -n.X))),
	}
}

// NormalizeLon wraps a longitude into [-180, 180).
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// ProjectEquirect maps a coordinate onto a w×h equirectangular grid. The
// result is clamped to the grid.
func ProjectEquirect(c GeoCoord, w, h int) (col, row int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	x := (NormalizeLon(c.Lon) + 180) / 360
	y := (90 - clamp(c.Lat, -90, 90)) / 180
	col = int(x * float64(w))
	row = int(y * float64(h))
	if col >= w {
		col = w - 1
	}
	if row >= h {
		row = h - 1
	}
	return col, row
}

// CrossesAntimeridian reports whether the short path between two longitudes
// wraps across ±180°, in which case a map segment must not be drawn.
func CrossesAntimeridian(lon1, lon2 float64) bool {
	return math.Abs(NormalizeLon(lon1)-NormalizeLon(lon2)) > 180
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
