// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BasicVertexShader transforms mesh vertices by the model, view and projection uniforms.
//
//go:embed basic.vert
var BasicVertexShader string

// BasicFragmentShader colors mesh fragments by their normal, or flat when there is none.
//
//go:embed basic.frag
var BasicFragmentShader string
