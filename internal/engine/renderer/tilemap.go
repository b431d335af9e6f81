package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/arena/internal/engine/renderer/shaders"
	"github.com/Faultbox/arena/internal/engine/shader"
	"github.com/Faultbox/arena/internal/engine/surface"
	"github.com/Faultbox/arena/internal/engine/tilemesh"
	"github.com/Faultbox/arena/internal/logger"
	"github.com/Faultbox/arena/pkg/math"
)

const vertexStride = int32(unsafe.Sizeof(tilemesh.Vertex{}))

var (
	_ surface.MeshSink = (*TilemapRenderer)(nil)
	_ surface.PathSink = (*TilemapRenderer)(nil)
)

// TilemapRenderer uploads tile meshes to the GPU and draws them with the
// atlas bound. It receives meshes and collision outlines from the surface.
type TilemapRenderer struct {
	program *shader.Program
	log     *zap.Logger

	// Tile mesh
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	// Collision outlines, drawn as line loops
	outlineVAO    uint32
	outlineVBO    uint32
	outlineStarts []int32
	outlineCounts []int32

	atlasTex uint32

	// ShowOutlines toggles the collision overlay.
	ShowOutlines bool
	OutlineColor [4]float32
}

// NewTilemapRenderer compiles the tile shader and allocates GPU buffers.
func NewTilemapRenderer() (*TilemapRenderer, error) {
	program, err := shader.Compile(shaders.TilemapVertexShader, shaders.TilemapFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("tilemap shader: %w", err)
	}

	tr := &TilemapRenderer{
		program:      program,
		log:          logger.Named("tilemap-renderer"),
		OutlineColor: [4]float32{1.0, 0.35, 0.2, 1.0},
	}

	gl.GenVertexArrays(1, &tr.vao)
	gl.GenBuffers(1, &tr.vbo)
	gl.GenBuffers(1, &tr.ebo)

	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, 12)
	gl.EnableVertexAttribArray(1)
	// TexCoord (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, 24)
	gl.EnableVertexAttribArray(2)

	gl.GenVertexArrays(1, &tr.outlineVAO)
	gl.GenBuffers(1, &tr.outlineVBO)
	gl.BindVertexArray(tr.outlineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.outlineVBO)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 8, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return tr, nil
}

// SetMesh replaces the GPU copy of the tile mesh.
func (tr *TilemapRenderer) SetMesh(mesh *tilemesh.Mesh) {
	tr.indexCount = 0
	if mesh == nil || mesh.Empty() {
		tr.log.Debug("mesh cleared")
		return
	}

	vertices := mesh.Interleaved()

	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(vertexStride), gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	tr.indexCount = int32(len(mesh.Indices))

	tr.log.Debug("mesh uploaded",
		zap.Int("vertices", len(vertices)),
		zap.Int("indices", len(mesh.Indices)),
	)
}

// SetPaths replaces the collision outline overlay.
func (tr *TilemapRenderer) SetPaths(paths []tilemesh.Path) {
	tr.outlineStarts = tr.outlineStarts[:0]
	tr.outlineCounts = tr.outlineCounts[:0]

	var points []float32
	for _, p := range paths {
		if len(p) < 2 {
			continue
		}
		tr.outlineStarts = append(tr.outlineStarts, int32(len(points)/2))
		tr.outlineCounts = append(tr.outlineCounts, int32(len(p)))
		for _, v := range p {
			points = append(points, v.X, v.Y)
		}
	}
	if len(points) == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, tr.outlineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(points)*4, gl.Ptr(points), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// SetAtlas uploads the atlas texture, replacing any previous one.
// Atlas cells are sampled with nearest filtering so neighbours never bleed.
func (tr *TilemapRenderer) SetAtlas(img *image.RGBA) {
	if tr.atlasTex != 0 {
		gl.DeleteTextures(1, &tr.atlasTex)
		tr.atlasTex = 0
	}
	if img == nil || img.Bounds().Empty() {
		return
	}

	gl.GenTextures(1, &tr.atlasTex)
	gl.BindTexture(gl.TEXTURE_2D, tr.atlasTex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	tr.log.Debug("atlas uploaded",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
}

// Draw renders the mesh and, if enabled, the collision outlines.
func (tr *TilemapRenderer) Draw(viewProj math.Mat4) {
	tr.program.Use()
	gl.UniformMatrix4fv(tr.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())

	if tr.indexCount > 0 && tr.atlasTex != 0 {
		gl.Uniform1i(tr.program.Uniform("uOutline"), 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tr.atlasTex)
		gl.Uniform1i(tr.program.Uniform("uAtlas"), 0)

		gl.BindVertexArray(tr.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, 0)
	}

	if tr.ShowOutlines && len(tr.outlineStarts) > 0 {
		c := tr.OutlineColor
		gl.Uniform1i(tr.program.Uniform("uOutline"), 1)
		gl.Uniform4f(tr.program.Uniform("uOutlineColor"), c[0], c[1], c[2], c[3])

		gl.BindVertexArray(tr.outlineVAO)
		gl.MultiDrawArrays(gl.LINE_LOOP, &tr.outlineStarts[0], &tr.outlineCounts[0], int32(len(tr.outlineStarts)))
	}

	gl.BindVertexArray(0)
}

// Close releases GPU resources.
func (tr *TilemapRenderer) Close() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
	}
	if tr.outlineVAO != 0 {
		gl.DeleteVertexArrays(1, &tr.outlineVAO)
	}
	if tr.outlineVBO != 0 {
		gl.DeleteBuffers(1, &tr.outlineVBO)
	}
	if tr.atlasTex != 0 {
		gl.DeleteTextures(1, &tr.atlasTex)
	}
	tr.program.Delete()
}
