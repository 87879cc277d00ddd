package eos

import (
	"errors"

	"github.com/JulianKarrer/eos/glfrag"
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Halo sphere geometry and texturing.
const (
	haloRadius     = 1.0
	haloSpinSpeed  = 0.11 // radians per second about the tilted axis.
	haloContrast   = 1.15
	haloBrightness = 0.04
)

// Halo corona shaping. Widths and distances are in image-plane units.
const (
	haloBaseWidth  = 0.28
	haloBaseGain   = 0.55
	haloSpikeWidth = 0.16
	haloSpikeGain  = 0.8
	primaryHalf    = 0.6
	primarySharp   = 3.0
	secondaryHalf  = 0.38
	secondarySharp = 2.0
	secondaryGain  = 0.55
	pulseFreq      = 2.4
	pulseBase      = 0.12
	pulseGain      = 0.5
	proxFalloff    = 2.2
)

var (
	haloSpinAxis = ms3.Vec{X: 0.25, Y: 1, Z: 0.12}
	haloTint     = ms3.Vec{X: 1, Y: 0.83, Z: 0.58}
)

// HaloSphere is the ray-traced glowing sphere kernel. Pixels whose view ray
// strikes the sphere sample an equirectangular texture spun over time; pixels
// that miss receive a pulsing corona around the sphere's silhouette.
type HaloSphere struct {
	tex *Equirect
}

// NewHaloSphere returns the kernel sampling tex on the sphere surface.
func NewHaloSphere(tex *Equirect) (*HaloSphere, error) {
	if tex == nil {
		return nil, errors.New("halo sphere requires a texture")
	}
	return &HaloSphere{tex: tex}, nil
}

// Shade implements [Kernel].
func (h *HaloSphere) Shade(frag ms2.Vec, u Uniforms) ms3.Vec {
	ro, rd := cameraRay(frag, u)
	t0, t1, hit := RaySphere(ro, rd, ms3.Vec{}, haloRadius)
	if !hit {
		return h.corona(rd, u)
	}
	t := t0
	if t <= 0 {
		t = t1
	}
	if t <= 0 {
		// Sphere entirely behind the camera.
		return u.Background
	}
	p := ms3.Add(ro, ms3.Scale(t, rd))
	p = RotateAxisAngle(p, haloSpinAxis, haloSpinSpeed*u.Time)
	uv := EquirectUV(ms3.Scale(1/haloRadius, p))
	c := h.tex.Sample(uv.X, uv.Y)
	c = ms3.AddScalar(0.5+haloBrightness, ms3.Scale(haloContrast, ms3.AddScalar(-0.5, c)))
	return clamp3(c)
}

// corona shades a pixel whose ray misses the sphere. The silhouette circle is
// projected onto the image plane through the tangent half-angle subtended by
// the sphere; grazing rays whose projection is undefined get a sentinel
// distance so the glow vanishes instead of dividing by zero.
func (h *HaloSphere) corona(rd ms3.Vec, u Uniforms) ms3.Vec {
	var (
		dist float32 = largenum
		ang  float32
	)
	dz := -rd.Z
	if dz > epstol {
		s := focalDepth / dz
		px, py := rd.X*s, rd.Y*s
		dist = maxf(math32.Hypot(px, py)-silhouetteRadius(), 0)
		// 0 at "up", increasing clockwise. Swapped atan2 arguments move the
		// branch discontinuity away from the top of the silhouette.
		ang = math32.Atan2(px, py)
	}
	spikes := haloSpikes(ang)
	base := math32.Exp(-(dist / haloBaseWidth) * (dist / haloBaseWidth))
	spiky := spikes * math32.Exp(-(dist/haloSpikeWidth)*(dist/haloSpikeWidth))
	pulse := 1 + (pulseBase+pulseGain*u.Aux0)*math32.Sin(pulseFreq*u.Time)
	glow := (haloBaseGain*base + haloSpikeGain*spiky) * pulse * (1 + u.Aux1)
	prox := 1 / (1 + proxFalloff*dist)
	return clamp3(ms3.Add(u.Background, ms3.Scale(glow*prox, haloTint)))
}

// silhouetteRadius is the radius of the sphere's silhouette circle on the
// image plane via the tangent-line half-angle.
func silhouetteRadius() float32 {
	sinA := float32(haloRadius) / cameraDist
	tanA := sinA / math32.Sqrt(maxf(1-sinA*sinA, epstol))
	return focalDepth * tanA
}

// haloSpikes sums the angular spike pattern at angle ang: four primary
// pulses on the cardinal directions and four dimmer secondary pulses offset
// by 45 degrees.
func haloSpikes(ang float32) float32 {
	const quarter = math32.Pi / 2
	var s float32
	for i := 0; i < 4; i++ {
		s += spikePulse(ang-float32(i)*quarter, primaryHalf, primarySharp)
		s += secondaryGain * spikePulse(ang-float32(i)*quarter-quarter/2, secondaryHalf, secondarySharp)
	}
	return s
}

// spikePulse is a triangular pulse of the given angular half-width raised to
// a sharpness exponent, wrapped by shortest angular distance.
func spikePulse(delta, halfWidth, sharp float32) float32 {
	delta = WrapAngle(delta)
	m := 1 - absf(delta)/halfWidth
	if m <= 0 {
		return 0
	}
	return math32.Pow(m, sharp)
}

// AppendShaderName implements [glfrag.Source].
func (h *HaloSphere) AppendShaderName(b []byte) []byte {
	return append(b, "haloSphere"...)
}

// AppendShaderDecls implements [glfrag.Source].
func (h *HaloSphere) AppendShaderDecls(b []byte) []byte {
	b = append(b, "uniform sampler2D uEquirect;\n\n"...)
	b = append(b, `float wrapAngle(float a) {
	a = mod(a + 3.14159265, 6.28318531);
	return a - 3.14159265;
}

float spikePulse(float delta, float halfWidth, float sharp) {
	delta = wrapAngle(delta);
	float m = 1.0 - abs(delta)/halfWidth;
	return m <= 0.0 ? 0.0 : pow(m, sharp);
}

`...)
	return b
}

// AppendShaderBody implements [glfrag.Source]. The emitted GLSL mirrors
// [HaloSphere.Shade] with all tuning constants baked in.
func (h *HaloSphere) AppendShaderBody(b []byte) []byte {
	b = glfrag.AppendFloatDecl(b, "camd", cameraDist)
	b = glfrag.AppendFloatDecl(b, "fd", focalDepth)
	b = glfrag.AppendFloatDecl(b, "rad", haloRadius)
	b = glfrag.AppendFloatDecl(b, "spin", haloSpinSpeed)
	b = glfrag.AppendFloatDecl(b, "contrast", haloContrast)
	b = glfrag.AppendFloatDecl(b, "bright", haloBrightness)
	b = glfrag.AppendVec3Decl(b, "axis", ms3.Unit(haloSpinAxis))
	b = glfrag.AppendVec3Decl(b, "tint", haloTint)
	b = glfrag.AppendFloatDecl(b, "bw", haloBaseWidth)
	b = glfrag.AppendFloatDecl(b, "bg", haloBaseGain)
	b = glfrag.AppendFloatDecl(b, "sw", haloSpikeWidth)
	b = glfrag.AppendFloatDecl(b, "sg", haloSpikeGain)
	b = glfrag.AppendFloatDecl(b, "ph", primaryHalf)
	b = glfrag.AppendFloatDecl(b, "ps", primarySharp)
	b = glfrag.AppendFloatDecl(b, "sh", secondaryHalf)
	b = glfrag.AppendFloatDecl(b, "ss", secondarySharp)
	b = glfrag.AppendFloatDecl(b, "sgain", secondaryGain)
	b = glfrag.AppendFloatDecl(b, "pf", pulseFreq)
	b = glfrag.AppendFloatDecl(b, "pb", pulseBase)
	b = glfrag.AppendFloatDecl(b, "pg", pulseGain)
	b = glfrag.AppendFloatDecl(b, "prx", proxFalloff)
	b = append(b, `vec2 q = frag - uTopLeft;
vec2 ndc = vec2((2.0*q.x - uResolution.x)/uResolution.y, -(2.0*q.y - uResolution.y)/uResolution.y);
vec3 ro = vec3(0.0, 0.0, camd);
vec3 rd = normalize(vec3(ndc, -fd));
vec3 oc = -ro;
float tca = dot(oc, rd);
float perp2 = dot(oc, oc) - tca*tca;
if (perp2 <= rad*rad) {
	float thc = sqrt(max(rad*rad - perp2, 0.0));
	float t = tca - thc;
	if (t <= 0.0) { t = tca + thc; }
	if (t <= 0.0) { return vec4(uBackground, uAlpha); }
	vec3 p = ro + t*rd;
	float sa = sin(spin*uTime);
	float ca = cos(spin*uTime);
	p = p*ca + cross(axis, p)*sa + axis*dot(axis, p)*(1.0 - ca);
	p /= rad;
	vec2 uv = vec2(0.5 + atan(p.x, p.z)/6.28318531, acos(clamp(p.y, -1.0, 1.0))/3.14159265);
	vec3 col = (texture(uEquirect, uv).rgb - 0.5)*contrast + 0.5 + bright;
	return vec4(clamp(col, 0.0, 1.0), uAlpha);
}
float dist = 1.0e20;
float ang = 0.0;
float dz = -rd.z;
if (dz > 6.0e-7) {
	vec2 pp = rd.xy*(fd/dz);
	float sinA = rad/camd;
	float tanA = sinA/sqrt(max(1.0 - sinA*sinA, 6.0e-7));
	dist = max(length(pp) - fd*tanA, 0.0);
	ang = atan(pp.x, pp.y);
}
float spikes = 0.0;
for (int i = 0; i < 4; i++) {
	float card = ang - float(i)*1.57079633;
	spikes += spikePulse(card, ph, ps);
	spikes += sgain*spikePulse(card - 0.78539816, sh, ss);
}
float base = exp(-(dist/bw)*(dist/bw));
float spiky = spikes*exp(-(dist/sw)*(dist/sw));
float pulse = 1.0 + (pb + pg*uAux.x)*sin(pf*uTime);
float glow = (bg*base + sg*spiky)*pulse*(1.0 + uAux.y);
float prox = 1.0/(1.0 + prx*dist);
return vec4(clamp(uBackground + tint*glow*prox, 0.0, 1.0), uAlpha);
`...)
	return b
}
