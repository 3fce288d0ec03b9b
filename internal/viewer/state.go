// Package viewer holds the planet detail viewer: the per-frame camera and
// rotation update, the sphere rasterizer and the side panel figures.
package viewer

import (
	"math"
	"time"
)

// FrameInterval is the reference frame duration; per-frame constants below are
// scaled by dt/FrameInterval so the feel is the same at any tick rate.
const FrameInterval = time.Second / 60

const (
	// AutoRotate is the idle spin in radians per frame.
	AutoRotate = 0.001

	// Sensitivity converts pointer movement (cells) to radians.
	Sensitivity = 0.005

	// Damping is the per-frame velocity retention after a drag ends.
	Damping = 0.92

	// Epsilon is the speed below which inertia stops.
	Epsilon = 1e-5

	// MaxTilt bounds the X rotation so the poles never flip over.
	MaxTilt = 1.2

	// ZoomSpeed converts wheel delta to camera distance.
	ZoomSpeed = 0.003

	// MinZoom and MaxZoom bound the camera distance.
	MinZoom = 1.5
	MaxZoom = 6.0

	// DefaultZoom is the initial camera distance.
	DefaultZoom = 2.8

	// Easing is the per-frame fraction of the remaining zoom distance covered.
	Easing = 0.1
)

// State is the viewer's camera and rotation.
type State struct {
	RotX, RotY float64 // radians; RotX is tilt, RotY is spin
	VelX, VelY float64 // radians per frame
	Zoom       float64 // current camera distance
	TargetZoom float64 // camera distance being eased toward
	Dragging   bool
}

// Input is what the pointer did since the previous step.
type Input struct {
	DragDX, DragDY float64 // pointer movement while the button is held
	Dragging       bool
	Wheel          float64 // positive zooms out
}

// NewState returns the initial viewer state.
func NewState() State {
	return State{Zoom: DefaultZoom, TargetZoom: DefaultZoom}
}

// Step advances s by dt given in. It is a pure function: the same inputs
// always produce the same output, and the returned zoom is always within
// [MinZoom, MaxZoom] and tilt within [-MaxTilt, MaxTilt].
func Step(s State, dt time.Duration, in Input) State {
	frames := float64(dt) / float64(FrameInterval)
	if frames < 0 {
		frames = 0
	}

	s.RotY += AutoRotate * frames

	if in.Dragging {
		dx := in.DragDX * Sensitivity
		dy := in.DragDY * Sensitivity
		s.RotY += dx
		s.RotX += dy
		// Carry the last drag speed into the release.
		if frames > 0 {
			s.VelY, s.VelX = dx/frames, dy/frames
		} else if dx != 0 || dy != 0 {
			s.VelY, s.VelX = dx, dy
		}
		s.Dragging = true
	} else {
		s.RotY += s.VelY * frames
		s.RotX += s.VelX * frames
		decay := math.Pow(Damping, frames)
		s.VelX *= decay
		s.VelY *= decay
		if math.Abs(s.VelX) < Epsilon {
			s.VelX = 0
		}
		if math.Abs(s.VelY) < Epsilon {
			s.VelY = 0
		}
		s.Dragging = false
	}

	if s.RotX > MaxTilt {
		s.RotX, s.VelX = MaxTilt, 0
	} else if s.RotX < -MaxTilt {
		s.RotX, s.VelX = -MaxTilt, 0
	}
	s.RotY = math.Remainder(s.RotY, 2*math.Pi)

	s.TargetZoom = ClampZoom(s.TargetZoom + in.Wheel*ZoomSpeed)
	ease := 1 - math.Pow(1-Easing, frames)
	s.Zoom = ClampZoom(s.Zoom + (s.TargetZoom-s.Zoom)*ease)

	return s
}

// ClampZoom bounds a camera distance. NaN maps to DefaultZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Settled reports whether the viewer has no motion left besides auto-spin.
func (s State) Settled() bool {
	return !s.Dragging && s.VelX == 0 && s.VelY == 0 && math.Abs(s.TargetZoom-s.Zoom) < 1e-3
}
