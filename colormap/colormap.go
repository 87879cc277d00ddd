// Package colormap provides the piecewise-polynomial colormaps used to shade
// the wobble blob. Each channel is an ordered list of (threshold,
// coefficients) segments over [0,1], evaluated by linear scan, with outputs
// in a [0,255]-like range scaled down to [0,1] and clamped. Interior segments
// are cubic Hermite polynomials with Catmull-Rom tangents so every channel is
// continuous at its breakpoints; the outermost segments are linear.
package colormap

import (
	"github.com/soypat/glgl/math/ms3"
)

// Segment is one polynomial piece of a channel. The value at x within the
// segment is c0 + c1*t + c2*t^2 + c3*t^3 with t = x - Start, expressed in a
// [0,255] range.
type Segment struct {
	Start  float32
	Coeffs [4]float32
}

// Channel evaluates one color component as a piecewise polynomial. Segments
// are ordered by ascending Start; the last segment extends to x=1.
type Channel []Segment

// At evaluates the channel at x, clamping x into [0,1] and the scaled result
// into [0,1].
func (ch Channel) At(x float32) float32 {
	if len(ch) == 0 {
		return 0
	}
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	i := len(ch) - 1
	for i > 0 && x < ch[i].Start {
		i--
	}
	s := &ch[i]
	t := x - s.Start
	c := s.Coeffs
	v := c[0] + t*(c[1]+t*(c[2]+t*c[3]))
	v *= 1.0 / 255
	if v < 0 {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}

// Map is a three-channel colormap over [0,1].
type Map struct {
	Name    string
	R, G, B Channel
}

// At returns the RGB color at x with all components in [0,1].
func (m *Map) At(x float32) ms3.Vec {
	return ms3.Vec{X: m.R.At(x), Y: m.G.At(x), Z: m.B.At(x)}
}

// Breakpoints returns the segment thresholds of the red channel, which all
// channels of the built-in maps share.
func (m *Map) Breakpoints() []float32 {
	bp := make([]float32, len(m.R))
	for i, s := range m.R {
		bp[i] = s.Start
	}
	return bp
}

// Ember is the default blob colormap: a perceptually-motivated ramp from
// near-black through deep violet and red up to a bright yellow-white, in the
// family of the matplotlib heat maps. Knot positions sit on multiples of 4/41
// as in the empirical table it was fitted from.
var Ember = buildMap("ember", emberX[:], emberR[:], emberG[:], emberB[:])

var (
	emberX = [9]float32{0, 4.0 / 41, 8.0 / 41, 14.0 / 41, 20.0 / 41, 26.0 / 41, 32.0 / 41, 38.0 / 41, 1}
	emberR = [9]float32{0, 31, 87, 150, 205, 239, 252, 254, 252}
	emberG = [9]float32{0, 12, 16, 35, 72, 120, 180, 230, 255}
	emberB = [9]float32{4, 72, 110, 85, 38, 14, 25, 85, 165}
)

func buildMap(name string, xs, r, g, b []float32) Map {
	return Map{
		Name: name,
		R:    fitChannel(xs, r),
		G:    fitChannel(xs, g),
		B:    fitChannel(xs, b),
	}
}

// fitChannel converts value knots into explicit polynomial segments. Interior
// pieces are cubic Hermite with Catmull-Rom tangents; the first and last
// pieces are linear. Endpoint values are reproduced exactly, so the channel
// is continuous at every knot by construction.
func fitChannel(xs, vs []float32) Channel {
	n := len(xs) - 1
	ch := make(Channel, n)
	tangent := func(i int) float32 {
		if i <= 0 {
			return (vs[1] - vs[0]) / (xs[1] - xs[0])
		}
		if i >= n {
			return (vs[n] - vs[n-1]) / (xs[n] - xs[n-1])
		}
		return (vs[i+1] - vs[i-1]) / (xs[i+1] - xs[i-1])
	}
	for i := 0; i < n; i++ {
		h := xs[i+1] - xs[i]
		v0, v1 := vs[i], vs[i+1]
		if i == 0 || i == n-1 {
			ch[i] = Segment{Start: xs[i], Coeffs: [4]float32{v0, (v1 - v0) / h, 0, 0}}
			continue
		}
		m0, m1 := tangent(i), tangent(i+1)
		d := v1 - v0
		ch[i] = Segment{Start: xs[i], Coeffs: [4]float32{
			v0,
			m0,
			3*d/(h*h) - (2*m0+m1)/h,
			-2*d/(h*h*h) + (m0+m1)/(h*h),
		}}
	}
	return ch
}
