package colormap_test

import (
	"strings"
	"testing"

	"github.com/JulianKarrer/eos/colormap"
	"github.com/chewxy/math32"
)

func TestEmberRange(t *testing.T) {
	for x := float32(0); x <= 1; x += 1.0 / 256 {
		c := colormap.Ember.At(x)
		for _, v := range [3]float32{c.X, c.Y, c.Z} {
			if math32.IsNaN(v) || v < 0 || v > 1 {
				t.Fatalf("At(%v) component out of range: %v", x, c)
			}
		}
	}
}

func TestEmberEndpoints(t *testing.T) {
	lo := colormap.Ember.At(0)
	if lo.X > 0.05 || lo.Y > 0.05 || lo.Z > 0.1 {
		t.Errorf("At(0) should be near black, got %v", lo)
	}
	hi := colormap.Ember.At(1)
	if hi.X < 0.9 || hi.Y < 0.9 {
		t.Errorf("At(1) should be bright, got %v", hi)
	}
	// Inputs outside [0,1] clamp to the endpoint values.
	if colormap.Ember.At(-3) != lo {
		t.Error("At(-3) differs from At(0)")
	}
	if colormap.Ember.At(7) != hi {
		t.Error("At(7) differs from At(1)")
	}
}

// Channels must be continuous where polynomial pieces meet: evaluating just
// below and just above each breakpoint yields nearly equal values.
func TestEmberContinuityAtBreakpoints(t *testing.T) {
	const step = 1e-4
	// Hermite segments drift by at most their slope over the step; the
	// steepest ember channel slope is a few hundred per unit x in the
	// [0,255] range, so 1e-2 after scaling is a generous bound.
	const tol = 1e-2
	for _, bp := range colormap.Ember.Breakpoints() {
		if bp <= 0 || bp >= 1 {
			continue
		}
		below := colormap.Ember.At(bp - step)
		at := colormap.Ember.At(bp)
		for _, d := range [3]float32{
			math32.Abs(at.X - below.X),
			math32.Abs(at.Y - below.Y),
			math32.Abs(at.Z - below.Z),
		} {
			if d > tol {
				t.Errorf("discontinuity at breakpoint %v: delta %v", bp, d)
			}
		}
	}
}

func TestEmberBreakpointSpacing(t *testing.T) {
	bps := colormap.Ember.Breakpoints()
	if len(bps) == 0 || bps[0] != 0 {
		t.Fatalf("first breakpoint must be 0, got %v", bps)
	}
	for i := 1; i < len(bps); i++ {
		if bps[i] <= bps[i-1] {
			t.Errorf("breakpoints not ascending at %d: %v", i, bps)
		}
	}
	// Knots sit on multiples of 4/41.
	if math32.Abs(bps[1]-4.0/41) > 1e-6 {
		t.Errorf("second breakpoint %v, want 4/41", bps[1])
	}
}

func TestChannelEmptyIsZero(t *testing.T) {
	var ch colormap.Channel
	if got := ch.At(0.5); got != 0 {
		t.Errorf("empty channel returned %v", got)
	}
}

func TestAppendShaderEmitsFunction(t *testing.T) {
	src := string(colormap.Ember.AppendShader(nil, "ember"))
	for _, want := range []string{
		"vec3 ember(float x)",
		"float emberChan(float x",
		"emberCfR",
		"emberCfG",
		"emberCfB",
		"emberSt",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("shader source missing %q:\n%s", want, src)
		}
	}
}
