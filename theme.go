package termview

import (
	"fmt"
	"image/color"
	"strconv"

	headlessterm "github.com/danielgatis/go-headless-term"
)

// ColorPalette holds the 16 configurable ANSI colors plus the semantic
// colors as 7-character "#RRGGBB" hex strings. A malformed entry is a
// broken theme and panics at resolution time rather than rendering an
// arbitrary wrong color.
type ColorPalette struct {
	Foreground string
	Background string

	Black   string
	Red     string
	Green   string
	Yellow  string
	Blue    string
	Magenta string
	Cyan    string
	White   string

	BrightBlack   string
	BrightRed     string
	BrightGreen   string
	BrightYellow  string
	BrightBlue    string
	BrightMagenta string
	BrightCyan    string
	BrightWhite   string

	// BrightForeground falls back to Foreground when empty.
	BrightForeground string

	DimForeground string
	DimBlack      string
	DimRed        string
	DimGreen      string
	DimYellow     string
	DimBlue       string
	DimMagenta    string
	DimCyan       string
	DimWhite      string
}

// DefaultColorPalette returns the stock base16-style palette.
func DefaultColorPalette() ColorPalette {
	return ColorPalette{
		Foreground: "#d8d8d8",
		Background: "#181818",

		Black:   "#181818",
		Red:     "#ac4242",
		Green:   "#90a959",
		Yellow:  "#f4bf75",
		Blue:    "#6a9fb5",
		Magenta: "#aa759f",
		Cyan:    "#75b5aa",
		White:   "#d8d8d8",

		BrightBlack:   "#6b6b6b",
		BrightRed:     "#c55555",
		BrightGreen:   "#aac474",
		BrightYellow:  "#feca88",
		BrightBlue:    "#82b8c8",
		BrightMagenta: "#c28cb8",
		BrightCyan:    "#93d3c3",
		BrightWhite:   "#f8f8f8",

		DimForeground: "#828482",
		DimBlack:      "#0f0f0f",
		DimRed:        "#712b2b",
		DimGreen:      "#5f6f3a",
		DimYellow:     "#a17e4d",
		DimBlue:       "#456877",
		DimMagenta:    "#704d68",
		DimCyan:       "#4d7770",
		DimWhite:      "#8e8e8e",
	}
}

// Theme resolves engine cell colors to concrete RGBA values: direct RGB
// passes through, indices 0-15 go through the palette, 16-231 through the
// 6x6x6 color cube and 232-255 through the grayscale ramp, and named colors
// through the palette's semantic entries.
type Theme struct {
	palette ColorPalette
	ansi256 [256]color.RGBA
}

// NewTheme creates a theme over the given palette.
func NewTheme(palette ColorPalette) *Theme {
	t := &Theme{palette: palette}

	// 6x6x6 color cube (16-231). The first 16 entries stay zero; they are
	// resolved through the palette instead.
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				t.ansi256[i] = color.RGBA{
					R: cubeComponent(r),
					G: cubeComponent(g),
					B: cubeComponent(b),
					A: 255,
				}
				i++
			}
		}
	}

	// Grayscale ramp (232-255).
	for j := 0; j < 24; j++ {
		v := uint8(j*10 + 8)
		t.ansi256[232+j] = color.RGBA{R: v, G: v, B: v, A: 255}
	}

	return t
}

func cubeComponent(c int) uint8 {
	if c == 0 {
		return 0
	}
	return uint8(c*40 + 55)
}

// DefaultTheme returns a theme over the default palette.
func DefaultTheme() *Theme {
	return NewTheme(DefaultColorPalette())
}

// Background returns the resolved global background color.
func (t *Theme) Background() color.RGBA {
	return hexToRGBA(t.palette.Background)
}

// Foreground returns the resolved default foreground color.
func (t *Theme) Foreground() color.RGBA {
	return hexToRGBA(t.palette.Foreground)
}

// Color resolves an engine cell color to RGBA. Engine cells use nil for the
// default color; fg selects whether that resolves to the foreground or the
// background.
func (t *Theme) Color(c color.Color, fg bool) color.RGBA {
	switch v := c.(type) {
	case nil:
		if fg {
			return hexToRGBA(t.palette.Foreground)
		}
		return hexToRGBA(t.palette.Background)
	case color.RGBA:
		return v
	case *headlessterm.IndexedColor:
		return t.indexed(v.Index)
	case *headlessterm.NamedColor:
		return t.named(v.Name)
	default:
		r, g, b, a := c.RGBA()
		return color.RGBA{
			R: uint8(r >> 8),
			G: uint8(g >> 8),
			B: uint8(b >> 8),
			A: uint8(a >> 8),
		}
	}
}

func (t *Theme) indexed(index int) color.RGBA {
	if index < 0 || index > 255 {
		return color.RGBA{A: 255}
	}
	if index <= 15 {
		return hexToRGBA(t.paletteIndex(index))
	}
	return t.ansi256[index]
}

// paletteIndex maps indices 0-15 to palette fields.
func (t *Theme) paletteIndex(index int) string {
	switch index {
	case 0:
		return t.palette.Black
	case 1:
		return t.palette.Red
	case 2:
		return t.palette.Green
	case 3:
		return t.palette.Yellow
	case 4:
		return t.palette.Blue
	case 5:
		return t.palette.Magenta
	case 6:
		return t.palette.Cyan
	case 7:
		return t.palette.White
	case 8:
		return t.palette.BrightBlack
	case 9:
		return t.palette.BrightRed
	case 10:
		return t.palette.BrightGreen
	case 11:
		return t.palette.BrightYellow
	case 12:
		return t.palette.BrightBlue
	case 13:
		return t.palette.BrightMagenta
	case 14:
		return t.palette.BrightCyan
	case 15:
		return t.palette.BrightWhite
	default:
		return t.palette.Background
	}
}

func (t *Theme) named(name int) color.RGBA {
	if name >= 0 && name <= 15 {
		return hexToRGBA(t.paletteIndex(name))
	}

	switch name {
	case headlessterm.NamedColorForeground, headlessterm.NamedColorCursor:
		return hexToRGBA(t.palette.Foreground)
	case headlessterm.NamedColorBackground:
		return hexToRGBA(t.palette.Background)
	case headlessterm.NamedColorBrightForeground:
		if t.palette.BrightForeground != "" {
			return hexToRGBA(t.palette.BrightForeground)
		}
		return hexToRGBA(t.palette.Foreground)
	case headlessterm.NamedColorDimForeground:
		return hexToRGBA(t.palette.DimForeground)
	case headlessterm.NamedColorDimBlack:
		return hexToRGBA(t.palette.DimBlack)
	case headlessterm.NamedColorDimRed:
		return hexToRGBA(t.palette.DimRed)
	case headlessterm.NamedColorDimGreen:
		return hexToRGBA(t.palette.DimGreen)
	case headlessterm.NamedColorDimYellow:
		return hexToRGBA(t.palette.DimYellow)
	case headlessterm.NamedColorDimBlue:
		return hexToRGBA(t.palette.DimBlue)
	case headlessterm.NamedColorDimMagenta:
		return hexToRGBA(t.palette.DimMagenta)
	case headlessterm.NamedColorDimCyan:
		return hexToRGBA(t.palette.DimCyan)
	case headlessterm.NamedColorDimWhite:
		return hexToRGBA(t.palette.DimWhite)
	default:
		return hexToRGBA(t.palette.Background)
	}
}

// hexToRGBA parses a "#RRGGBB" string. Malformed entries indicate a broken
// theme and panic with a descriptive message.
func hexToRGBA(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		panic(fmt.Sprintf("termview: invalid palette color %q", hex))
	}

	r, err := strconv.ParseUint(hex[1:3], 16, 8)
	if err != nil {
		panic(fmt.Sprintf("termview: invalid palette color %q", hex))
	}
	g, err := strconv.ParseUint(hex[3:5], 16, 8)
	if err != nil {
		panic(fmt.Sprintf("termview: invalid palette color %q", hex))
	}
	b, err := strconv.ParseUint(hex[5:7], 16, 8)
	if err != nil {
		panic(fmt.Sprintf("termview: invalid palette color %q", hex))
	}

	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

// dimColor applies the 70% dim adjustment used for cells with the dim flag.
func dimColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * 0.7),
		G: uint8(float32(c.G) * 0.7),
		B: uint8(float32(c.B) * 0.7),
		A: c.A,
	}
}
