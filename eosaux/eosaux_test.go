package eosaux_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/JulianKarrer/eos"
	"github.com/JulianKarrer/eos/eosaux"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

type solidKernel struct{ c ms3.Vec }

func (s solidKernel) Shade(frag ms2.Vec, u eos.Uniforms) ms3.Vec { return s.c }

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	err := eosaux.Render(solidKernel{c: ms3.Vec{X: 1}}, eosaux.RenderConfig{
		PNGOutput: &buf,
		Width:     32,
		Height:    24,
		Uniforms:  eos.Uniforms{Alpha: 1},
		Silent:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("decoded bounds %v, want 32x24", img.Bounds())
	}
	r, g, b, _ := img.At(16, 12).RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Errorf("center pixel (%d,%d,%d), want pure red", r, g, b)
	}
}

func TestRenderRequiresOutput(t *testing.T) {
	err := eosaux.Render(solidKernel{}, eosaux.RenderConfig{Width: 8, Height: 8})
	if err == nil {
		t.Error("config without outputs accepted")
	}
}

func TestRenderPNGFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.png")
	u := eos.Uniforms{Alpha: 1}
	err := eosaux.RenderPNGFile(name, solidKernel{c: ms3.Vec{Y: 1}}, u, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("bounds %v", img.Bounds())
	}
}

func TestLoadEquirectRescales(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tex.png")
	src := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(25 * x), G: uint8(42 * y), A: 255})
		}
	}
	fp, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(fp, src); err != nil {
		t.Fatal(err)
	}
	fp.Close()

	tex, err := eosaux.LoadEquirect(name, 20, 12)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := tex.Size(); w != 20 || h != 12 {
		t.Errorf("rescaled size (%d,%d), want (20,12)", w, h)
	}
	// Non-positive target dimensions keep the source size.
	tex, err = eosaux.LoadEquirect(name, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := tex.Size(); w != 10 || h != 6 {
		t.Errorf("unscaled size (%d,%d), want (10,6)", w, h)
	}
}

func TestLoadEquirectMissingFile(t *testing.T) {
	if _, err := eosaux.LoadEquirect(filepath.Join(t.TempDir(), "nope.png"), 0, 0); err == nil {
		t.Error("missing file accepted")
	}
}
