// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// TilemapVertexShader transforms tile mesh vertices into clip space.
//
//go:embed tilemap.vert
var TilemapVertexShader string

// TilemapFragmentShader samples the tile atlas, or draws a flat outline color.
//
//go:embed tilemap.frag
var TilemapFragmentShader string
