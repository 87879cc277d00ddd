// Package eosaux has auxiliary functions to get set up rendering the shading
// kernels quickly: texture loading, PNG and GIF export, and a GLFW window
// running the GPU rendition of a kernel. Applications with their own frame
// loop should use the eos and render packages directly.
package eosaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/JulianKarrer/eos"
	"github.com/JulianKarrer/eos/render"
	"golang.org/x/image/draw"
)

// RenderConfig configures [Render].
type RenderConfig struct {
	// PNGOutput receives a single frame at time Time.
	PNGOutput io.Writer
	// GIFOutput receives an animation of Frames frames starting at Time.
	GIFOutput io.Writer
	Width     int
	Height    int
	Uniforms  eos.Uniforms
	Frames    int
	// FrameTime is the time step between animation frames. Zero means the
	// 33ms cadence of the interactive viewer.
	FrameTime time.Duration
	AntiAlias bool
	Silent    bool
}

// Render is an auxiliary function to aid users in rendering a kernel to
// PNG or GIF output quickly.
func Render(k eos.Kernel, cfg RenderConfig) error {
	if cfg.PNGOutput == nil && cfg.GIFOutput == nil {
		return errors.New("Render requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	r := render.Renderer{AntiAlias: cfg.AntiAlias}
	ctx := context.Background()
	if cfg.PNGOutput != nil {
		start := time.Now()
		img, err := r.Render(ctx, k, cfg.Uniforms, cfg.Width, cfg.Height)
		if err != nil {
			return err
		}
		if err := png.Encode(cfg.PNGOutput, img); err != nil {
			return err
		}
		log("PNG frame rendered in", time.Since(start).Round(time.Millisecond))
	}
	if cfg.GIFOutput != nil {
		frames := cfg.Frames
		if frames <= 0 {
			frames = 60
		}
		ft := cfg.FrameTime
		if ft <= 0 {
			ft = eos.FrameTime
		}
		start := time.Now()
		err := r.Animation(ctx, cfg.GIFOutput, k, cfg.Uniforms, cfg.Width, cfg.Height, frames, float32(ft.Seconds()))
		if err != nil {
			return err
		}
		log(frames, "GIF frames rendered in", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// RenderPNGFile renders a single frame of k to a PNG file.
func RenderPNGFile(filename string, k eos.Kernel, u eos.Uniforms, width, height int) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = Render(k, RenderConfig{
		PNGOutput: fp,
		Width:     width,
		Height:    height,
		Uniforms:  u,
		AntiAlias: true,
		Silent:    true,
	})
	if err != nil {
		return err
	}
	return fp.Close()
}

// LoadEquirect reads a PNG or JPEG texture from filename and rescales it to
// width x height with bilinear interpolation before wrapping it in a sampler.
// Non-positive dimensions keep the source size.
func LoadEquirect(filename string, width, height int) (*eos.Equirect, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	img, _, err := image.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", filename, err)
	}
	if width > 0 && height > 0 && (img.Bounds().Dx() != width || img.Bounds().Dy() != height) {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}
	return eos.NewEquirect(img)
}

// UIConfig configures [UI].
type UIConfig struct {
	Width  int
	Height int
	// Texture is uploaded as the uEquirect sampler. Required for kernels
	// that sample it, ignored otherwise.
	Texture *eos.Equirect
	// Context cancels the render loop when done.
	Context  context.Context
	Uniforms eos.Uniforms
}

// KernelSource is the combination of CPU shading and GLSL emission every
// shipped kernel implements.
type KernelSource interface {
	eos.Kernel
	AppendShaderName(b []byte) []byte
	AppendShaderDecls(b []byte) []byte
	AppendShaderBody(b []byte) []byte
}

// UI starts a GLFW window running the GPU rendition of k until closed.
// Requires cgo. The caller must have called [runtime.LockOSThread] in the
// main goroutine's init.
func UI(k KernelSource, cfg UIConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("invalid UI dimensions")
	}
	return ui(k, cfg)
}
