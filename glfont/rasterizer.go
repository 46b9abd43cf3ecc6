// Package glfont implements atlas.Rasterizer over an on-disk TrueType/
// OpenType font via golang.org/x/image/font/opentype, rasterizing one
// code point at a time for the glyph atlas cache's on-miss path — the
// same library the teacher's renderer uses to eagerly pre-fill a whole
// Unicode range, narrowed here to a single glyph per call.
package glfont

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"driftwoodterm/core/atlas"
)

// Rasterizer rasterizes single glyphs from a loaded font face at a
// fixed tile size.
type Rasterizer struct {
	mu   sync.Mutex
	face font.Face

	tileSize int
	ascent   int
}

// New parses fontData and builds a Rasterizer that renders glyphs at
// sizePoints into tileSize x tileSize tiles (the atlas's per-glyph tile
// dimension, config.AtlasConfig.GlyphPixelSize).
func New(fontData []byte, sizePoints float64, tileSize int) (*Rasterizer, error) {
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("glfont: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    sizePoints,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glfont: create face: %w", err)
	}

	metrics := face.Metrics()
	return &Rasterizer{
		face:     face,
		tileSize: tileSize,
		ascent:   metrics.Ascent.Ceil(),
	}, nil
}

// Close releases the underlying font face.
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.face.Close()
}

// Rasterize renders cp into a tileSize x tileSize single-channel alpha
// bitmap. font.Face is not safe for concurrent use, and the core's
// single-threaded I/O loop never calls this concurrently anyway, but
// the mutex keeps the type safe to share regardless.
func (r *Rasterizer) Rasterize(cp rune) (atlas.Bitmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	advance, ok := r.face.GlyphAdvance(cp)
	if !ok {
		return atlas.Bitmap{}, fmt.Errorf("glfont: no glyph for U+%04X", cp)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.tileSize, r.tileSize))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(0, r.ascent),
	}
	drawer.DrawString(string(cp))

	pixels := make([]byte, r.tileSize*r.tileSize)
	for i := 0; i < len(pixels); i++ {
		pixels[i] = dst.Pix[i*4+3]
	}

	return atlas.Bitmap{
		Width:    r.tileSize,
		Height:   r.tileSize,
		Pixels:   pixels,
		BearingX: 0,
		BearingY: r.ascent,
		Advance:  advance.Ceil(),
	}, nil
}

// LoadFontFile reads a font file from disk for New to parse.
func LoadFontFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// FindSystemFont searches common monospace-font install locations,
// mirroring ptyio's /etc/passwd-then-fallback-paths shell discovery
// idiom, for use when no font path is configured.
func FindSystemFont() string {
	candidates := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
		"/usr/share/fonts/truetype/jetbrains-mono/JetBrainsMono-Regular.ttf",
		"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
		"/usr/share/fonts/noto/NotoSansMono-Regular.ttf",
		"/System/Library/Fonts/Menlo.ttc",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
