package colormap

import (
	"strconv"

	"github.com/JulianKarrer/eos/glfrag"
)

// AppendShader appends the GLSL rendition of the map as a function
// `vec3 <name>(float x)` together with the constant segment tables it reads.
// Array and helper identifiers are prefixed with name to keep them unique
// when several maps share a shader.
func (m *Map) AppendShader(b []byte, name string) []byte {
	n := len(m.R)
	b = glfrag.AppendFloatSliceDecl(b, name+"St", starts(m.R))
	b = glfrag.AppendVec4SliceDecl(b, name+"CfR", coeffs(m.R))
	b = glfrag.AppendVec4SliceDecl(b, name+"CfG", coeffs(m.G))
	b = glfrag.AppendVec4SliceDecl(b, name+"CfB", coeffs(m.B))
	count := strconv.Itoa(n)
	b = append(b, "float "+name+"Chan(float x, vec4 cf["+count+"]) {\n"...)
	b = append(b, "\tint i = "+count+" - 1;\n"...)
	b = append(b, "\tfor (; i > 0 && x < "+name+"St[i]; i--) { }\n"...)
	b = append(b, "\tfloat t = x - "+name+"St[i];\n"...)
	b = append(b, "\tvec4 c = cf[i];\n"...)
	b = append(b, "\treturn clamp((c.x + t*(c.y + t*(c.z + t*c.w)))/255.0, 0.0, 1.0);\n}\n"...)
	b = append(b, "vec3 "+name+"(float x) {\n\tx = clamp(x, 0.0, 1.0);\n"...)
	b = append(b, "\treturn vec3("+name+"Chan(x, "+name+"CfR), "+name+"Chan(x, "+name+"CfG), "+name+"Chan(x, "+name+"CfB));\n}\n"...)
	return b
}

func starts(ch Channel) []float32 {
	s := make([]float32, len(ch))
	for i := range ch {
		s[i] = ch[i].Start
	}
	return s
}

func coeffs(ch Channel) [][4]float32 {
	c := make([][4]float32, len(ch))
	for i := range ch {
		c[i] = ch[i].Coeffs
	}
	return c
}
