package glwin

import (
	"bytes"
	"image"
	"image/draw"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// iconSVG is the application icon. The teacher's icon asset file wasn't
// available to adapt, so this inlines a minimal vector mark instead of
// go:embed-ing a binary that doesn't exist in this tree: a rounded
// terminal-window glyph with a ">_" prompt, in the same style as other
// terminal app icons.
const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
  <rect x="2" y="2" width="60" height="60" rx="10" fill="#0d101a"/>
  <rect x="2" y="2" width="60" height="60" rx="10" fill="none" stroke="#74b6ff" stroke-width="2"/>
  <path d="M14 22 L26 32 L14 42" fill="none" stroke="#a2e0c7" stroke-width="4" stroke-linecap="round" stroke-linejoin="round"/>
  <line x1="32" y1="42" x2="50" y2="42" stroke="#e8edf7" stroke-width="4" stroke-linecap="round"/>
</svg>`

// iconSizes are the pixel dimensions GLFW expects for a multi-resolution
// application icon.
var iconSizes = []int{16, 32, 48, 64, 128}

// renderSVGToSize rasterizes the icon SVG to a size x size RGBA image.
func renderSVGToSize(size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(iconSVG)))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// loadMultiSizeIcons renders the icon at every size GLFW wants.
func loadMultiSizeIcons() []image.Image {
	images := make([]image.Image, 0, len(iconSizes))
	for _, size := range iconSizes {
		img, err := renderSVGToSize(size)
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return images
}

// setIcon rasterizes and installs the application icon.
func (w *Window) setIcon() {
	images := loadMultiSizeIcons()
	if len(images) == 0 {
		return
	}
	w.win.SetIcon(images)
}

// SetIcon re-applies the icon; exposed for callers that re-create
// windows (e.g. after a fullscreen toggle on platforms that need it).
func (w *Window) SetIcon() {
	w.setIcon()
}
