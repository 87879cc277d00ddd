//go:build !tinygo && cgo

package eosaux

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/JulianKarrer/eos"
	"github.com/JulianKarrer/eos/glfrag"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

func ui(k KernelSource, cfg UIConfig) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()
	var frag bytes.Buffer
	_, err = glfrag.WriteFragment(&frag, k)
	if err != nil {
		return err
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   glfrag.VertexSource + "\x00",
		Fragment: frag.String() + "\x00",
	})
	if err != nil {
		return fmt.Errorf("%s\n\n%w", frag.String(), err)
	}
	prog.Bind()

	// The vertex stage derives positions from gl_VertexID, so an empty VAO
	// suffices.
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	if cfg.Texture != nil {
		if err := uploadEquirect(prog, cfg.Texture); err != nil {
			return err
		}
	}

	// Inactive uniforms resolve to -1, which gl.Uniform* silently ignores.
	uloc := func(name string) int32 {
		loc, err := prog.UniformLocation(name + "\x00")
		if err != nil {
			return -1
		}
		return loc
	}
	var (
		resUniform     = uloc("uResolution")
		topLeftUniform = uloc("uTopLeft")
		timeUniform    = uloc("uTime")
		bgUniform      = uloc("uBackground")
		alphaUniform   = uloc("uAlpha")
		auxUniform     = uloc("uAux")
	)

	u := cfg.Uniforms
	paused := false
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeySpace && action == glfw.Press {
			paused = !paused
		}
	})

	ctx := cfg.Context
	previousTime := glfw.GetTime()
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		currentTime := glfw.GetTime()
		if !paused {
			u.Time += float32(currentTime - previousTime)
		}
		previousTime = currentTime

		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.Clear(gl.COLOR_BUFFER_BIT)

		prog.Bind()
		gl.Uniform2f(resUniform, float32(width), float32(height))
		gl.Uniform2f(topLeftUniform, u.TopLeft.X, u.TopLeft.Y)
		gl.Uniform1f(timeUniform, u.Time)
		gl.Uniform3f(bgUniform, u.Background.X, u.Background.Y, u.Background.Z)
		gl.Uniform1f(alphaUniform, u.Alpha)
		gl.Uniform2f(auxUniform, u.Aux0, u.Aux1)

		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)
		window.SwapBuffers()

		time.Sleep(eos.FrameTime)
		glfw.PollEvents()
	}
	return nil
}

// uploadEquirect uploads tex to texture unit 0 as the uEquirect sampler.
// Longitude wraps, so S repeats; latitude clamps at the poles.
func uploadEquirect(prog glgl.Program, tex *eos.Equirect) error {
	w, h := tex.Size()
	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F, int32(w), int32(h), 0, gl.RGB, gl.FLOAT, gl.Ptr(tex.Pix()))
	sampler, err := prog.UniformLocation("uEquirect\x00")
	if err != nil {
		return err
	}
	gl.Uniform1i(sampler, 0)
	return nil
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		log.Fatalln("Failed to initialize GLFW:", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, "eos kernel viewer", nil, nil)
	if err != nil {
		log.Fatalln("Failed to create GLFW window:", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalln("Failed to initialize OpenGL:", err)
	}
	return window, glfw.Terminate, err
}
