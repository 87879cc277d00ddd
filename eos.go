// Package eos implements the per-pixel shading kernels of the eos
// procedural background visuals: a ray-traced glowing sphere with an
// animated corona ("halo sphere") and a raymarched wobbling blob shaded
// through a colormap ("wobble blob").
//
// Kernels are pure functions of a pixel coordinate and a per-frame
// [Uniforms] block. The same math is emitted as GLSL through the glfrag
// package so GPU output mirrors the CPU evaluators bit-for-intent.
package eos

import (
	"errors"
	"time"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// FrameTime is the nominal animation cadence: uniforms advance Time in steps
// of FrameTime and hosts redraw at that rate.
const FrameTime = 33 * time.Millisecond

const (
	// largenum stands in for distances of degenerate geometric configurations
	// such as grazing rays whose image-plane projection is undefined.
	largenum = 1e20
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization.
	epstol = 6e-7
)

// Camera shared by both kernels: eye on the +z axis looking down -z at the
// world origin, image plane a fixed depth in front of the eye.
const (
	cameraDist = 3.0
	focalDepth = 1.5
)

// Uniforms is the per-frame uniform block. It is constant across all pixels
// within one frame and supplied fresh by the host each frame.
type Uniforms struct {
	// Resolution is the viewport size in pixels. Both components must be
	// strictly positive.
	Resolution ms2.Vec
	// TopLeft is the offset of the render region within a larger surface.
	// Zero when rendering a full window.
	TopLeft ms2.Vec
	// Time is seconds elapsed, monotonically increasing unless the host
	// pauses the animation.
	Time float32
	// Background is the color returned wherever a kernel produces no effect.
	Background ms3.Vec
	// Alpha is the output alpha channel, in [0,1]. Feeds host compositing.
	Alpha float32
	// Aux0 and Aux1 are kernel-specific extras. The halo sphere reads them
	// as pulse and strength modulation; the wobble blob ignores them.
	Aux0, Aux1 float32
}

// Validate checks host-guaranteed invariants. It is called once per frame by
// renderers, never per pixel.
func (u *Uniforms) Validate() error {
	if u.Resolution.X <= 0 || u.Resolution.Y <= 0 {
		return errors.New("uniform resolution must be strictly positive")
	}
	if u.Alpha < 0 || u.Alpha > 1 || math32.IsNaN(u.Alpha) {
		return errors.New("uniform alpha outside [0,1]")
	}
	return nil
}

// Kernel shades a single pixel. frag is the window-space pixel position with
// y growing downward, matching the host's top-left convention. Implementations
// are pure: identical arguments yield bit-identical colors.
type Kernel interface {
	Shade(frag ms2.Vec, u Uniforms) ms3.Vec
}

// FullscreenTriangle returns the clip-space xy position for vertex index
// 0, 1 or 2 of the screen-covering triangle, derived from the index with the
// usual bit trick. z and w of the emitted vertex are 0 and 1.
func FullscreenTriangle(index int) ms2.Vec {
	uv := ms2.Vec{
		X: float32((index << 1) & 2),
		Y: float32(index & 2),
	}
	return ms2.AddScalar(-1, ms2.Scale(2, uv))
}

// cameraRay builds the per-pixel view ray. The pixel is centered within the
// render region, normalized by the viewport height so the projection is
// aspect-preserving, and y is flipped from window to world orientation.
func cameraRay(frag ms2.Vec, u Uniforms) (ro, rd ms3.Vec) {
	p := ms2.Sub(frag, u.TopLeft)
	ndc := ms2.Vec{
		X: (2*p.X - u.Resolution.X) / u.Resolution.Y,
		Y: -(2*p.Y - u.Resolution.Y) / u.Resolution.Y,
	}
	ro = ms3.Vec{Z: cameraDist}
	rd = ms3.Unit(ms3.Vec{X: ndc.X, Y: ndc.Y, Z: -focalDepth})
	return ro, rd
}

// RaySphere intersects a ray of origin ro and normalized direction rd against
// the sphere of radius r centered at c, using the closest-approach parameter
// and squared perpendicular distance. On hit t0 <= t1 are the entry and exit
// ray parameters; either may be negative for origins inside or past the
// sphere.
func RaySphere(ro, rd, c ms3.Vec, r float32) (t0, t1 float32, hit bool) {
	oc := ms3.Sub(c, ro)
	tca := ms3.Dot(oc, rd)
	perp2 := ms3.Dot(oc, oc) - tca*tca
	if perp2 > r*r {
		return 0, 0, false
	}
	thc := math32.Sqrt(maxf(r*r-perp2, 0))
	return tca - thc, tca + thc, true
}

// RotateAxisAngle rotates p about the axis through the origin by angle
// radians using Rodrigues' rotation formula. axis need not be normalized.
func RotateAxisAngle(p, axis ms3.Vec, angle float32) ms3.Vec {
	a := ms3.Unit(axis)
	s, c := math32.Sincos(angle)
	rot := ms3.Scale(c, p)
	rot = ms3.Add(rot, ms3.Scale(s, ms3.Cross(a, p)))
	return ms3.Add(rot, ms3.Scale(ms3.Dot(a, p)*(1-c), a))
}

// EquirectUV maps a point on the unit sphere to equirectangular texture
// coordinates: longitude from atan2 of x and z, colatitude from the arccos of
// y. The +z pole of the sphere maps to (0.5, 0.5); v is 0 at the +y pole.
func EquirectUV(p ms3.Vec) ms2.Vec {
	return ms2.Vec{
		X: 0.5 + math32.Atan2(p.X, p.Z)/(2*math32.Pi),
		Y: math32.Acos(clampf(p.Y, -1, 1)) / math32.Pi,
	}
}

// WrapAngle wraps a into the interval [-pi, pi] by shortest angular distance.
func WrapAngle(a float32) float32 {
	a = math32.Mod(a, 2*math32.Pi)
	if a > math32.Pi {
		a -= 2 * math32.Pi
	} else if a < -math32.Pi {
		a += 2 * math32.Pi
	}
	return a
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

func absf(a float32) float32 {
	return math32.Abs(a)
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}

func clamp3(v ms3.Vec) ms3.Vec {
	return ms3.ClampElem(v, ms3.Vec{}, ms3.Vec{X: 1, Y: 1, Z: 1})
}

func mix3(x, y ms3.Vec, a float32) ms3.Vec {
	return ms3.InterpElem(x, y, ms3.Vec{X: a, Y: a, Z: a})
}
