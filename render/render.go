// Package render rasterizes shading kernels on the CPU. It exists so kernel
// output can be inspected, tested and exported without a GPU context; the
// GLSL path produces the same images up to floating point noise.
package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"runtime"
	"sync"

	"github.com/JulianKarrer/eos"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Renderer rasterizes a [eos.Kernel] over a pixel grid, splitting rows among
// worker goroutines.
type Renderer struct {
	// Workers is the number of goroutines sharing the image rows.
	// Non-positive means [runtime.NumCPU].
	Workers int
	// AntiAlias enables 3x3 supersampling per pixel.
	AntiAlias bool
}

// aaOffsets are the 3x3 subpixel sample offsets used when antialiasing.
var aaOffsets = [9]ms2.Vec{
	{X: -1. / 3, Y: -1. / 3}, {X: 0, Y: -1. / 3}, {X: 1. / 3, Y: -1. / 3},
	{X: -1. / 3, Y: 0}, {X: 0, Y: 0}, {X: 1. / 3, Y: 0},
	{X: -1. / 3, Y: 1. / 3}, {X: 0, Y: 1. / 3}, {X: 1. / 3, Y: 1. / 3},
}

// Render shades every pixel of a width-by-height image with k under the
// uniforms u. A zero u.Resolution is filled in from the image dimensions.
// Pixel positions are offset by u.TopLeft the same way the GPU path offsets
// gl_FragCoord. Rendering is cancelled when ctx is done, returning the
// context's error.
func (r *Renderer) Render(ctx context.Context, k eos.Kernel, u eos.Uniforms, width, height int) (*image.NRGBA, error) {
	if k == nil {
		return nil, errors.New("render: nil kernel")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("render: non-positive image dimensions")
	}
	if u.Resolution == (ms2.Vec{}) {
		u.Resolution = ms2.Vec{X: float32(width), Y: float32(height)}
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// NRGBA keeps the channels straight-alpha, matching the kernel output.
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	alpha := quantize(u.Alpha)

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := 0; x < width; x++ {
					c := r.shadePixel(k, u, x, y)
					img.SetNRGBA(x, y, color.NRGBA{
						R: quantize(c.X),
						G: quantize(c.Y),
						B: quantize(c.Z),
						A: alpha,
					})
				}
			}
		}()
	}
	var err error
feed:
	for y := 0; y < height; y++ {
		select {
		case rows <- y:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(rows)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Renderer) shadePixel(k eos.Kernel, u eos.Uniforms, x, y int) ms3.Vec {
	center := ms2.Vec{X: float32(x) + 0.5, Y: float32(y) + 0.5}
	center = ms2.Add(center, u.TopLeft)
	if !r.AntiAlias {
		return k.Shade(center, u)
	}
	var sum ms3.Vec
	for _, off := range aaOffsets {
		sum = ms3.Add(sum, k.Shade(ms2.Add(center, off), u))
	}
	return ms3.Scale(1./float32(len(aaOffsets)), sum)
}

func quantize(v float32) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

// frameDelay is the per-frame GIF delay in hundredths of a second,
// approximating the 33ms animation cadence.
const frameDelay = 3

// Animation renders frames frames of k starting at u.Time and advancing by
// dt seconds each frame, encoding them as an animated GIF to w. The frame
// palette is quantized with the Plan9 palette of the gif encoder.
func (r *Renderer) Animation(ctx context.Context, w io.Writer, k eos.Kernel, u eos.Uniforms, width, height, frames int, dt float32) error {
	if frames <= 0 {
		return errors.New("render: non-positive frame count")
	}
	anim := gif.GIF{LoopCount: 0}
	for f := 0; f < frames; f++ {
		img, err := r.Render(ctx, k, u, width, height)
		if err != nil {
			return err
		}
		pal := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, pal.Bounds(), img, image.Point{})
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, frameDelay)
		u.Time += dt
	}
	return gif.EncodeAll(w, &anim)
}
