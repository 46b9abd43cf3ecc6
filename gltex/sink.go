// Package gltex implements atlas.TextureSink: uploading a rasterized
// glyph bitmap into its tile of the shared GPU atlas texture via
// glTexSubImage2D, the same upload call the C original's
// addCodePointToAtlas and the teacher's renderer both use.
package gltex

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"driftwoodterm/core/atlas"
)

// gridSide is the number of tiles per row/column of the atlas texture:
// atlas.Capacity tiles arranged in a gridSide x gridSide square (32x32
// = 1024), matching the cache's fixed entry count.
const gridSide = 32

// Sink owns the GPU texture backing the glyph atlas.
type Sink struct {
	texture  uint32
	tileSize int
}

// NewSink allocates a gridSide*tileSize square texture and clears it to
// fully transparent.
func NewSink(tileSize int) *Sink {
	side := int32(gridSide * tileSize)
	blank := make([]byte, int(side)*int(side))

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, side, side, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(blank))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Sink{texture: tex, tileSize: tileSize}
}

// Texture returns the GL texture name, for the renderer to bind when
// drawing cells.
func (s *Sink) Texture() uint32 {
	return s.texture
}

// TileSize returns the per-glyph tile dimension in pixels.
func (s *Sink) TileSize() int {
	return s.tileSize
}

// TileCoords returns the normalized (u, v) origin and size of slot's
// tile, for building a glyph's texture coordinates.
func (s *Sink) TileCoords(slot uint16) (u, v, w, h float32) {
	idx := int(slot) - 1
	if idx < 0 {
		idx = 0
	}
	col := idx % gridSide
	row := idx / gridSide
	side := float32(gridSide * s.tileSize)
	return float32(col*s.tileSize) / side, float32(row*s.tileSize) / side,
		float32(s.tileSize) / side, float32(s.tileSize) / side
}

// Upload implements atlas.TextureSink: writes bmp into slot's tile. A
// zero-value Bitmap (the rasterizer's last-resort fallback) uploads a
// blank tile rather than panicking on a size mismatch.
func (s *Sink) Upload(slot uint16, bmp atlas.Bitmap) {
	idx := int(slot) - 1
	if idx < 0 {
		return
	}
	col := idx % gridSide
	row := idx / gridSide

	pixels := bmp.Pixels
	if bmp.Width != s.tileSize || bmp.Height != s.tileSize || len(pixels) != s.tileSize*s.tileSize {
		pixels = make([]byte, s.tileSize*s.tileSize)
	}

	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.TexSubImage2D(
		gl.TEXTURE_2D, 0,
		int32(col*s.tileSize), int32(row*s.tileSize),
		int32(s.tileSize), int32(s.tileSize),
		gl.RED, gl.UNSIGNED_BYTE,
		gl.Ptr(pixels),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}
