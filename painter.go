package termview

import (
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ImagePainter renders paint primitives into an in-memory RGBA image. It is
// the painter for headless hosts: screenshots, golden tests, terminal
// recording pipelines.
type ImagePainter struct {
	img  *image.RGBA
	face font.Face
}

// NewImagePainter makes a painter over a fresh image of the given pixel
// size, drawing glyphs with face. A nil face falls back to basicfont.
func NewImagePainter(width, height int, face font.Face) *ImagePainter {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &ImagePainter{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: face,
	}
}

// LoadFontFace loads a TrueType or OpenType font from a file path.
func LoadFontFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Image returns the rendered image.
func (p *ImagePainter) Image() *image.RGBA {
	return p.img
}

// CellMetrics derives the terminal cell dimensions from the font face.
func (p *ImagePainter) CellMetrics() Size {
	adv, _ := p.face.GlyphAdvance('M')
	width := adv.Ceil()
	if width == 0 {
		width = 7
	}
	return Size{
		Width:  float32(width),
		Height: float32(p.face.Metrics().Height.Ceil()),
	}
}

// FillRect fills a rectangle with a solid color.
func (p *ImagePainter) FillRect(r Rect, c color.RGBA) {
	bounds := p.img.Bounds()
	minX := clampInt(int(r.Min.X), bounds.Min.X, bounds.Max.X)
	maxX := clampInt(int(r.Max.X), bounds.Min.X, bounds.Max.X)
	minY := clampInt(int(r.Min.Y), bounds.Min.Y, bounds.Max.Y)
	maxY := clampInt(int(r.Max.Y), bounds.Min.Y, bounds.Max.Y)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			p.img.SetRGBA(x, y, c)
		}
	}
}

// Line strokes a horizontal or vertical segment as a filled rectangle
// centered on the segment. That covers the widget's only use, underlines;
// diagonal segments are not supported.
func (p *ImagePainter) Line(from, to Pos, thickness float32, c color.RGBA) {
	half := thickness / 2
	if from.Y == to.Y {
		p.FillRect(Rect{
			Min: Pos{X: from.X, Y: from.Y - half},
			Max: Pos{X: to.X, Y: to.Y + half},
		}, c)
		return
	}
	p.FillRect(Rect{
		Min: Pos{X: from.X - half, Y: from.Y},
		Max: Pos{X: to.X + half, Y: to.Y},
	}, c)
}

// Glyph draws a single character with its baseline derived from the font
// metrics.
func (p *ImagePainter) Glyph(pos Pos, width, height float32, ch rune, c color.RGBA) {
	baseline := int(pos.Y) + p.face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(c),
		Face: p.face,
		Dot:  fixed.P(int(pos.X), baseline),
	}
	d.DrawString(string(ch))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
