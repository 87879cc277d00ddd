// Package glfrag assembles the GLSL rendition of the shading kernels. Kernels
// describe themselves through the [Source] interface and glfrag wraps the
// pieces with the shared uniform block, the full-screen-triangle vertex stage
// and a main() that converts gl_FragCoord to the top-left window convention
// the kernels use.
package glfrag

import (
	"bytes"
	"io"
	"strconv"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

const VersionStr = "#version 460\n"

// uniformDecls is the GLSL mirror of the per-frame uniform block.
const uniformDecls = `uniform vec2 uResolution;
uniform vec2 uTopLeft;
uniform float uTime;
uniform vec3 uBackground;
uniform float uAlpha;
uniform vec2 uAux;
`

// VertexSource is the full-screen triangle vertex stage. The three clip-space
// positions are derived from gl_VertexID with the usual bit trick, so no
// vertex buffers are required.
const VertexSource = VersionStr + `void main() {
	vec2 uv = vec2(float((gl_VertexID << 1) & 2), float(gl_VertexID & 2));
	gl_Position = vec4(uv * 2.0 - 1.0, 0.0, 1.0);
}
`

// Source is implemented by kernels that can emit their GLSL fragment stage.
type Source interface {
	// AppendShaderName appends the name of the kernel's shading function.
	AppendShaderName(b []byte) []byte
	// AppendShaderDecls appends declarations the body needs before main:
	// extra uniforms such as samplers and helper functions.
	AppendShaderDecls(b []byte) []byte
	// AppendShaderBody appends the body of vec4 <name>(vec2 frag), which
	// returns the shaded RGBA color for the window-space pixel frag.
	AppendShaderBody(b []byte) []byte
}

// WriteFragment writes the complete fragment shader for s. The output is not
// NUL terminated; OpenGL loaders that require C strings must append the
// terminator themselves.
func WriteFragment(w io.Writer, s Source) (int, error) {
	var b bytes.Buffer
	b.WriteString(VersionStr)
	b.WriteString(uniformDecls)
	b.Write(s.AppendShaderDecls(nil))
	b.WriteString("vec4 ")
	b.Write(s.AppendShaderName(nil))
	b.WriteString("(vec2 frag) {\n")
	b.Write(s.AppendShaderBody(nil))
	b.WriteString("}\n\nout vec4 fragColor;\nvoid main() {\n\tvec2 frag = vec2(gl_FragCoord.x, uResolution.y - gl_FragCoord.y) + uTopLeft;\n\tfragColor = ")
	b.Write(s.AppendShaderName(nil))
	b.WriteString("(frag);\n}\n")
	n, err := w.Write(b.Bytes())
	return n, err
}

const decimalDigits = 9

// AppendFloat appends v as a valid GLSL float literal.
func AppendFloat(b []byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	// Trim trailing zeroes, leaving one digit after the decimal point.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

// AppendFloats appends the values separated by sep.
func AppendFloats(b []byte, sep byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}

// AppendFloatDecl appends `float <name>=<v>;`.
func AppendFloatDecl(b []byte, name string, v float32) []byte {
	b = append(b, "float "...)
	b = append(b, name...)
	b = append(b, '=')
	b = AppendFloat(b, v)
	b = append(b, ';', '\n')
	return b
}

// AppendIntDecl appends `int <name>=<v>;`.
func AppendIntDecl(b []byte, name string, v int) []byte {
	b = append(b, "int "...)
	b = append(b, name...)
	b = append(b, '=')
	b = strconv.AppendInt(b, int64(v), 10)
	b = append(b, ';', '\n')
	return b
}

// AppendVec2Decl appends `vec2 <name>=vec2(x,y);`.
func AppendVec2Decl(b []byte, name string, v ms2.Vec) []byte {
	b = append(b, "vec2 "...)
	b = append(b, name...)
	b = append(b, "=vec2("...)
	b = AppendFloats(b, ',', v.X, v.Y)
	b = append(b, ')', ';', '\n')
	return b
}

// AppendVec3Decl appends `vec3 <name>=vec3(x,y,z);`.
func AppendVec3Decl(b []byte, name string, v ms3.Vec) []byte {
	b = append(b, "vec3 "...)
	b = append(b, name...)
	b = append(b, "=vec3("...)
	b = AppendFloats(b, ',', v.X, v.Y, v.Z)
	b = append(b, ')', ';', '\n')
	return b
}

// AppendVec4SliceDecl appends a fixed-size vec4 array declaration such as
// `vec4[8] name=vec4[8](vec4(...),...);`.
func AppendVec4SliceDecl(b []byte, name string, vecs [][4]float32) []byte {
	b = appendStartSliceDecl(b, "vec4", name, len(vecs))
	for i, v := range vecs {
		b = append(b, "vec4("...)
		b = AppendFloats(b, ',', v[0], v[1], v[2], v[3])
		b = append(b, ')')
		if i != len(vecs)-1 {
			b = append(b, ',')
		}
	}
	b = append(b, ");\n"...)
	return b
}

// AppendFloatSliceDecl appends a fixed-size float array declaration.
func AppendFloatSliceDecl(b []byte, name string, vals []float32) []byte {
	b = appendStartSliceDecl(b, "float", name, len(vals))
	for i, v := range vals {
		b = AppendFloat(b, v)
		if i != len(vals)-1 {
			b = append(b, ',')
		}
	}
	b = append(b, ");\n"...)
	return b
}

func appendStartSliceDecl(b []byte, typeName, varName string, length int) []byte {
	typeStart := len(b)
	b = append(b, typeName...)
	b = append(b, '[')
	b = strconv.AppendInt(b, int64(length), 10)
	b = append(b, ']')
	typeEnd := len(b)
	b = append(b, ' ')
	b = append(b, varName...)
	b = append(b, '=')
	b = append(b, b[typeStart:typeEnd]...)
	b = append(b, '(')
	return b
}
