package viewer

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-atlas/internal/astro"
)

// Texture samples a surface map by equirectangular (u, v).
type Texture interface {
	At(u, v float64) color.RGBA
}

// fovHalfTan is tan(fov/2) for the 45° camera.
var fovHalfTan = math.Tan(22.5 * math.Pi / 180)

// Cell is one terminal cell holding two vertical pixels drawn with a half
// block. Unset pixels show the background glyph.
type Cell struct {
	Top, Bottom       color.RGBA
	HasTop, HasBottom bool
	Glyph             rune
}

// Frame is a rasterized viewport.
type Frame [][]Cell

// Options tune rasterization.
type Options struct {
	Halo      color.RGBA // atmosphere rim color; zero alpha disables it
	Stars     bool
	StarDrift float64 // degrees
}

// ApparentRadius returns the sphere radius as a fraction of the viewport
// half-height for a camera at distance zoom.
func ApparentRadius(zoom float64) float64 {
	zoom = ClampZoom(zoom)
	return math.Tan(math.Asin(1/zoom)) / fovHalfTan
}

// Rasterize renders a unit sphere oriented by s into a w×h cell grid.
// Terminal cells are about twice as tall as wide, so each cell carries two
// square pixels.
func Rasterize(s State, w, h int, tex Texture, opts Options) Frame {
	if w <= 0 || h <= 0 {
		return nil
	}
	frame := make(Frame, h)
	for i := range frame {
		frame[i] = make([]Cell, w)
		for j := range frame[i] {
			frame[i][j].Glyph = ' '
		}
	}

	if opts.Stars {
		for _, p := range astro.Starfield(astro.BrightStars(2.5), w, h, opts.StarDrift) {
			frame[p.Row][p.Col].Glyph = p.Glyph
		}
	}

	ph := 2 * h
	half := float64(ph) / 2
	r := ApparentRadius(s.Zoom) * half * 0.9

	for py := 0; py < ph; py++ {
		for px := 0; px < w; px++ {
			x := (float64(px) + 0.5 - float64(w)/2) / r
			y := -(float64(py) + 0.5 - half) / r
			c, ok := shade(s, x, y, tex, opts.Halo)
			if !ok {
				continue
			}
			cell := &frame[py/2][px]
			if py%2 == 0 {
				cell.Top, cell.HasTop = c, true
			} else {
				cell.Bottom, cell.HasBottom = c, true
			}
		}
	}
	return frame
}

// haloWidth is the rim thickness in sphere radii.
const haloWidth = 0.08

func shade(s State, x, y float64, tex Texture, halo color.RGBA) (color.RGBA, bool) {
	z, hit := astro.RayDepth(x, y)
	if !hit {
		if halo.A == 0 {
			return color.RGBA{}, false
		}
		d := math.Sqrt(x*x+y*y) - 1
		if d > haloWidth {
			return color.RGBA{}, false
		}
		k := 1 - d/haloWidth
		return scale(halo, 0.6*k*k), true
	}

	n := astro.Vec3{X: x, Y: y, Z: z}
	body := astro.Unorient(n, s.RotX, s.RotY)
	u, v := astro.SphereUV(body)
	base := tex.At(u, v)
	c := scale(base, astro.Lambert(n, astro.SunDirection))
	if halo.A != 0 {
		// Fresnel-ish rim glow.
		rim := math.Pow(1-z, 3) * 0.5
		c = mix(c, halo, rim)
	}
	return c, true
}

func scale(c color.RGBA, k float64) color.RGBA {
	f := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, float64(v)*k)))
	}
	return color.RGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: 0xff}
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	f := func(x, y uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, float64(x)*(1-t)+float64(y)*t)))
	}
	return color.RGBA{R: f(a.R, b.R), G: f(a.G, b.G), B: f(a.B, b.B), A: 0xff}
}

// Coverage returns the fraction of pixels the sphere (and halo) occupy.
func (f Frame) Coverage() float64 {
	var set, total int
	for _, row := range f {
		for _, c := range row {
			total += 2
			if c.HasTop {
				set++
			}
			if c.HasBottom {
				set++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(set) / float64(total)
}

var starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cbd5e1"))

// String renders the frame with truecolor half blocks.
func (f Frame) String() string {
	var b strings.Builder
	for i, row := range f {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			switch {
			case c.HasTop && c.HasBottom:
				b.WriteString(lipgloss.NewStyle().
					Foreground(hexColor(c.Top)).
					Background(hexColor(c.Bottom)).
					Render("▀"))
			case c.HasTop:
				b.WriteString(lipgloss.NewStyle().Foreground(hexColor(c.Top)).Render("▀"))
			case c.HasBottom:
				b.WriteString(lipgloss.NewStyle().Foreground(hexColor(c.Bottom)).Render("▄"))
			case c.Glyph != ' ' && c.Glyph != 0:
				b.WriteString(starStyle.Render(string(c.Glyph)))
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

// asciiRamp orders glyphs from dark to bright.
const asciiRamp = " .:-=+*#%@"

// ASCII renders the frame as a luminance ramp for terminals without color.
func (f Frame) ASCII() string {
	var b strings.Builder
	for i, row := range f {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if !c.HasTop && !c.HasBottom {
				if c.Glyph == 0 {
					b.WriteByte(' ')
				} else {
					b.WriteRune(c.Glyph)
				}
				continue
			}
			l := (luma(c.Top, c.HasTop) + luma(c.Bottom, c.HasBottom)) / 2
			idx := int(l * float64(len(asciiRamp)-1))
			if idx < 1 {
				idx = 1
			}
			b.WriteByte(asciiRamp[idx])
		}
	}
	return b.String()
}

func luma(c color.RGBA, ok bool) float64 {
	if !ok {
		return 0
	}
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func hexColor(c color.RGBA) lipgloss.Color {
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		buf[1+2*i] = digits[v>>4]
		buf[2+2*i] = digits[v&0x0f]
	}
	return lipgloss.Color(string(buf))
}

// HaloColor returns the atmosphere rim color for a planet.
func HaloColor(id string) color.RGBA {
	switch id {
	case "mars":
		return color.RGBA{R: 0xff, G: 0xaa, B: 0x66, A: 0xff}
	case "venus":
		return color.RGBA{R: 0xff, G: 0xcc, B: 0x99, A: 0xff}
	default:
		return color.RGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff}
	}
}
