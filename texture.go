package eos

import (
	"errors"
	"image"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Equirect is a read-only equirectangular texture addressed by (u,v) in
// [0,1]x[0,1]. Longitude (u) wraps around so the 0/1 seam samples across the
// image boundary; latitude (v) clamps at the poles. Pixels are stored as
// float32 RGB triplets for filtering without per-sample conversions.
type Equirect struct {
	w, h int
	pix  []float32
}

// NewEquirect converts img into an equirectangular sampler.
func NewEquirect(img image.Image) (*Equirect, error) {
	if img == nil {
		return nil, errors.New("nil texture image")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.New("empty texture image")
	}
	e := &Equirect{w: w, h: h, pix: make([]float32, 3*w*h)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			e.pix[i] = float32(r) / 0xffff
			e.pix[i+1] = float32(g) / 0xffff
			e.pix[i+2] = float32(bl) / 0xffff
			i += 3
		}
	}
	return e, nil
}

// Size returns the texture dimensions in pixels.
func (e *Equirect) Size() (w, h int) { return e.w, e.h }

// Pix returns the backing RGB float32 pixel data in row-major order, suitable
// for direct texture upload. The slice must not be modified.
func (e *Equirect) Pix() []float32 { return e.pix }

// Sample bilinearly filters the texture at (u,v). u wraps, v clamps.
func (e *Equirect) Sample(u, v float32) ms3.Vec {
	x := u*float32(e.w) - 0.5
	y := v*float32(e.h) - 0.5
	x0 := math32.Floor(x)
	y0 := math32.Floor(y)
	fx := x - x0
	fy := y - y0
	ix0 := wrapIndex(int(x0), e.w)
	ix1 := wrapIndex(int(x0)+1, e.w)
	iy0 := clampIndex(int(y0), e.h)
	iy1 := clampIndex(int(y0)+1, e.h)
	c00 := e.texel(ix0, iy0)
	c10 := e.texel(ix1, iy0)
	c01 := e.texel(ix0, iy1)
	c11 := e.texel(ix1, iy1)
	top := mix3(c00, c10, fx)
	bot := mix3(c01, c11, fx)
	return mix3(top, bot, fy)
}

func (e *Equirect) texel(x, y int) ms3.Vec {
	i := 3 * (y*e.w + x)
	return ms3.Vec{X: e.pix[i], Y: e.pix[i+1], Z: e.pix[i+2]}
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	} else if i >= n {
		return n - 1
	}
	return i
}
