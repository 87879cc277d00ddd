package eos

import (
	"github.com/JulianKarrer/eos/colormap"
	"github.com/JulianKarrer/eos/glfrag"
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Blob marching parameters.
const (
	blobRadius  = 0.9
	blobSteps   = 96
	blobEps     = 1e-3
	blobZStop   = -3.0 // abort marching once the ray passes this depth.
	blobAmbient = 0.18
	normalStep  = 5e-3
)

var (
	blobLight = ms3.Unit(ms3.Vec{X: 2, Y: 3, Z: 4})
	blobGlow  = ms3.Vec{X: 0.95, Y: 0.55, Z: 0.3}
)

// WobbleBlob is the sphere-marched kernel: a unit-ish sphere perturbed by a
// time-animated product of sines, shaded through a colormap indexed by how
// far the surface point sits from the undisturbed sphere.
type WobbleBlob struct {
	// Amplitude scales the sine displacement. Zero reduces the surface to
	// the exact sphere.
	Amplitude float32
	// Freq holds the per-axis spatial frequencies of the displacement.
	Freq ms3.Vec

	palette *colormap.Map
}

// NewWobbleBlob returns a kernel with the default wobble and the ember
// palette.
func NewWobbleBlob() *WobbleBlob {
	return &WobbleBlob{
		Amplitude: 0.18,
		Freq:      ms3.Vec{X: 3.1, Y: 4.3, Z: 3.7},
		palette:   &colormap.Ember,
	}
}

// Distance is the signed distance bound to the wobbling surface at time t.
// With Amplitude zero it is exactly the sphere distance |p|-r; the sine
// product is still evaluated but scaled away rather than branched around,
// matching how the GPU executes it.
func (w *WobbleBlob) Distance(p ms3.Vec, t float32) float32 {
	wob := math32.Sin(w.Freq.X*(p.X+t)) *
		math32.Sin(w.Freq.Y*(p.Y+t)) *
		math32.Sin(w.Freq.Z*(p.Z+t))
	return ms3.Norm(p) - blobRadius + w.Amplitude*wob
}

// Shade implements [Kernel].
func (w *WobbleBlob) Shade(frag ms2.Vec, u Uniforms) ms3.Vec {
	ro, rd := cameraRay(frag, u)
	t := u.Time
	p := ro
	steps := 0
	for ; steps < blobSteps; steps++ {
		d := w.Distance(p, t)
		if absf(d) < blobEps {
			return w.shadeSurface(p, t, u)
		}
		p = ms3.Add(p, ms3.Scale(d, rd))
		if p.Z < blobZStop {
			// Past the blob with no hit. A ray that burned most of
			// its budget skimmed the surface; blend toward the glow
			// color by the squared overshoot into the upper half.
			if steps > blobSteps/2 {
				over := float32(steps-blobSteps/2) / float32(blobSteps/2)
				return mix3(u.Background, blobGlow, over*over)
			}
			return u.Background
		}
	}
	// Budget exhausted near the surface: shade the closest point reached
	// rather than dropping the pixel.
	return w.shadeSurface(p, t, u)
}

func (w *WobbleBlob) shadeSurface(p ms3.Vec, t float32, u Uniforms) ms3.Vec {
	n := w.normal(p, t)
	diffuse := maxf(ms3.Dot(n, blobLight), 0)
	// Height of the surface point relative to the undisturbed sphere,
	// normalized into [0,1] by the wobble amplitude.
	x := 0.5 * (1 + (ms3.Norm(p)-blobRadius)/maxf(w.Amplitude, blobEps))
	col := w.palette.At(x)
	return ms3.Scale(clampf(diffuse+blobAmbient, 0, 1), col)
}

// normal estimates the surface normal by central differences of the distance
// field.
func (w *WobbleBlob) normal(p ms3.Vec, t float32) ms3.Vec {
	const h = normalStep
	return ms3.Unit(ms3.Vec{
		X: w.Distance(ms3.Add(p, ms3.Vec{X: h}), t) - w.Distance(ms3.Add(p, ms3.Vec{X: -h}), t),
		Y: w.Distance(ms3.Add(p, ms3.Vec{Y: h}), t) - w.Distance(ms3.Add(p, ms3.Vec{Y: -h}), t),
		Z: w.Distance(ms3.Add(p, ms3.Vec{Z: h}), t) - w.Distance(ms3.Add(p, ms3.Vec{Z: -h}), t),
	})
}

// AppendShaderName implements [glfrag.Source].
func (w *WobbleBlob) AppendShaderName(b []byte) []byte {
	return append(b, "wobbleBlob"...)
}

// AppendShaderDecls implements [glfrag.Source].
func (w *WobbleBlob) AppendShaderDecls(b []byte) []byte {
	b = w.palette.AppendShader(b, w.palette.Name)
	b = append(b, '\n')
	b = glfrag.AppendFloatDecl(b, "blobAmp", w.Amplitude)
	b = glfrag.AppendVec3Decl(b, "blobFreq", w.Freq)
	b = append(b, `float blobDist(vec3 p, float t) {
	float wob = sin(blobFreq.x*(p.x + t))*sin(blobFreq.y*(p.y + t))*sin(blobFreq.z*(p.z + t));
	return length(p) - `...)
	b = glfrag.AppendFloat(b, blobRadius)
	b = append(b, ` + blobAmp*wob;
}

`...)
	b = glfrag.AppendVec2Decl(b, "nrmStep", ms2.Vec{X: normalStep})
	b = append(b, `vec3 blobNormal(vec3 p, float t) {
	return normalize(vec3(
		blobDist(p + nrmStep.xyy, t) - blobDist(p - nrmStep.xyy, t),
		blobDist(p + nrmStep.yxy, t) - blobDist(p - nrmStep.yxy, t),
		blobDist(p + nrmStep.yyx, t) - blobDist(p - nrmStep.yyx, t)));
}

`...)
	return b
}

// AppendShaderBody implements [glfrag.Source]. The GLSL mirrors
// [WobbleBlob.Shade].
func (w *WobbleBlob) AppendShaderBody(b []byte) []byte {
	b = glfrag.AppendFloatDecl(b, "camd", cameraDist)
	b = glfrag.AppendFloatDecl(b, "fd", focalDepth)
	b = glfrag.AppendFloatDecl(b, "rad", blobRadius)
	b = glfrag.AppendIntDecl(b, "maxSteps", blobSteps)
	b = glfrag.AppendFloatDecl(b, "eps", blobEps)
	b = glfrag.AppendFloatDecl(b, "zstop", blobZStop)
	b = glfrag.AppendFloatDecl(b, "ambient", blobAmbient)
	b = glfrag.AppendVec3Decl(b, "lightDir", blobLight)
	b = glfrag.AppendVec3Decl(b, "glowCol", blobGlow)
	b = append(b, `vec2 q = frag - uTopLeft;
vec2 ndc = vec2((2.0*q.x - uResolution.x)/uResolution.y, -(2.0*q.y - uResolution.y)/uResolution.y);
vec3 ro = vec3(0.0, 0.0, camd);
vec3 rd = normalize(vec3(ndc, -fd));
vec3 p = ro;
for (int steps = 0; steps < maxSteps; steps++) {
	float d = blobDist(p, uTime);
	if (abs(d) < eps) { break; }
	p += d*rd;
	if (p.z < zstop) {
		if (steps > maxSteps/2) {
			float over = float(steps - maxSteps/2)/float(maxSteps/2);
			return vec4(mix(uBackground, glowCol, over*over), uAlpha);
		}
		return vec4(uBackground, uAlpha);
	}
}
vec3 n = blobNormal(p, uTime);
float diffuse = max(dot(n, lightDir), 0.0);
float x = 0.5*(1.0 + (length(p) - rad)/max(blobAmp, eps));
vec3 col = `...)
	b = append(b, w.palette.Name...)
	b = append(b, `(x)*clamp(diffuse + ambient, 0.0, 1.0);
return vec4(col, uAlpha);
`...)
	return b
}
