package render_test

import (
	"bytes"
	"context"
	"image/gif"
	"testing"

	"github.com/JulianKarrer/eos"
	"github.com/JulianKarrer/eos/render"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// gradientKernel shades each pixel by its normalized position, making every
// pixel value predictable.
type gradientKernel struct{}

func (gradientKernel) Shade(frag ms2.Vec, u eos.Uniforms) ms3.Vec {
	return ms3.Vec{
		X: frag.X / u.Resolution.X,
		Y: frag.Y / u.Resolution.Y,
		Z: u.Time,
	}
}

func TestRenderDimensionsAndAlpha(t *testing.T) {
	r := render.Renderer{Workers: 3}
	u := eos.Uniforms{Alpha: 1}
	img, err := r.Render(context.Background(), gradientKernel{}, u, 64, 48)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("image bounds %v, want 64x48", b)
	}
	for _, xy := range [][2]int{{0, 0}, {63, 0}, {0, 47}, {63, 47}, {32, 24}} {
		c := img.NRGBAAt(xy[0], xy[1])
		if c.A != 255 {
			t.Errorf("pixel %v alpha %d, want 255", xy, c.A)
		}
	}
	// The gradient grows left to right and top to bottom.
	if img.NRGBAAt(63, 0).R <= img.NRGBAAt(0, 0).R {
		t.Error("red channel does not grow along x")
	}
	if img.NRGBAAt(0, 47).G <= img.NRGBAAt(0, 0).G {
		t.Error("green channel does not grow along y")
	}
}

// solidKernel shades every pixel with the same color.
type solidKernel struct{ c ms3.Vec }

func (k solidKernel) Shade(frag ms2.Vec, u eos.Uniforms) ms3.Vec { return k.c }

func TestRenderStraightAlpha(t *testing.T) {
	r := render.Renderer{Workers: 1}
	u := eos.Uniforms{Alpha: 0.5}
	img, err := r.Render(context.Background(), solidKernel{c: ms3.Vec{X: 0.2}}, u, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Channels stay straight-alpha: 0.2 red at half opacity must store
	// R=51, not the premultiplied 26 or a doubled value after decode.
	c := img.NRGBAAt(2, 2)
	if c.R != 51 || c.G != 0 || c.B != 0 {
		t.Errorf("stored color %v, want straight R=51 G=0 B=0", c)
	}
	if c.A != 128 {
		t.Errorf("stored alpha %d, want 128", c.A)
	}
}

func TestRenderDeterministic(t *testing.T) {
	u := eos.Uniforms{Alpha: 0.5, Time: 0.25}
	a := render.Renderer{Workers: 1}
	b := render.Renderer{Workers: 8}
	imgA, err := a.Render(context.Background(), gradientKernel{}, u, 33, 17)
	if err != nil {
		t.Fatal(err)
	}
	imgB, err := b.Render(context.Background(), gradientKernel{}, u, 33, 17)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(imgA.Pix, imgB.Pix) {
		t.Error("worker count changed the rendered image")
	}
}

func TestRenderAntiAliasStaysInRange(t *testing.T) {
	r := render.Renderer{AntiAlias: true}
	u := eos.Uniforms{Alpha: 1}
	img, err := r.Render(context.Background(), gradientKernel{}, u, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Error("antialiasing changed output dimensions")
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	r := render.Renderer{}
	u := eos.Uniforms{Alpha: 1}
	if _, err := r.Render(context.Background(), nil, u, 8, 8); err == nil {
		t.Error("nil kernel accepted")
	}
	if _, err := r.Render(context.Background(), gradientKernel{}, u, 0, 8); err == nil {
		t.Error("zero width accepted")
	}
	bad := u
	bad.Alpha = 2
	if _, err := r.Render(context.Background(), gradientKernel{}, bad, 8, 8); err == nil {
		t.Error("invalid uniforms accepted")
	}
}

func TestRenderCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := render.Renderer{Workers: 1}
	_, err := r.Render(ctx, gradientKernel{}, eos.Uniforms{Alpha: 1}, 512, 512)
	if err == nil {
		t.Error("cancelled context did not abort the render")
	}
}

func TestAnimationEncodesFrames(t *testing.T) {
	var buf bytes.Buffer
	r := render.Renderer{}
	u := eos.Uniforms{Alpha: 1}
	err := r.Animation(context.Background(), &buf, gradientKernel{}, u, 16, 16, 4, 0.033)
	if err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 4 {
		t.Errorf("decoded %d frames, want 4", len(anim.Image))
	}
	for i, d := range anim.Delay {
		if d != 3 {
			t.Errorf("frame %d delay %d, want 3", i, d)
		}
	}
}
