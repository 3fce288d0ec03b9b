// Package astro provides the vector and sphere math behind the planet viewer
// and the tracker's world map.
package astro

import (
	"math"
)

// Vec3 represents a 3D vector. The view frame has X to the right, Y up and
// Z toward the viewer.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// RotateX rotates v about the X axis by a radians (positive tips +Y toward +Z).
func (v Vec3) RotateX(a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{
		X: v.X,
		Y: v.Y*c - v.Z*s,
		Z: v.Y*s + v.Z*c,
	}
}

// RotateY rotates v about the Y axis by a radians (positive turns +Z toward +X).
func (v Vec3) RotateY(a float64) Vec3 {
	c, s := math.Cos(a), math.Sin(a)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// Orient applies the viewer's group rotation (Y then X) to a body-frame vector.
func Orient(v Vec3, rotX, rotY float64) Vec3 {
	return v.RotateY(rotY).RotateX(rotX)
}

// Unorient maps a view-frame vector back into the body frame.
func Unorient(v Vec3, rotX, rotY float64) Vec3 {
	return v.RotateX(-rotX).RotateY(-rotY)
}

// SphereUV returns equirectangular texture coordinates for a unit body-frame
// normal. u runs west to east from the -X meridian, v runs north to south.
func SphereUV(n Vec3) (u, v float64) {
	u = 0.5 + math.Atan2(n.Z, -n.X)/(2*math.Pi)
	v = 0.5 - math.Asin(clamp(n.Y, -1, 1))/math.Pi
	u -= math.Floor(u)
	return u, v
}

// SunDirection is the key light direction in view space.
var SunDirection = Vec3{X: 5, Y: 3, Z: 5}.Normalized()

const (
	// AmbientLight is the unlit floor.
	AmbientLight = 0.3
	// SunIntensity scales the diffuse term.
	SunIntensity = 1.5
)

// Lambert returns ambient plus clamped diffuse light for normal n.
func Lambert(n, light Vec3) float64 {
	d := n.Dot(light)
	if d < 0 {
		d = 0
	}
	return AmbientLight + d*SunIntensity*(1-AmbientLight)
}

// RayDepth returns the visible hemisphere depth for a view-plane point
// (x, y) on a unit sphere, and false when the point misses the sphere.
func RayDepth(x, y float64) (float64, bool) {
	r2 := x*x + y*y
	if r2 > 1 {
		return 0, false
	}
	return math.Sqrt(1 - r2), true
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
