package formats

import (
	"errors"
	"fmt"
	"image/color"
	"os"
)

// PaletteSize is the number of bytes read from the tail of a palette file.
const PaletteSize = 256 * 3

// TransparentIndex is the palette index rendered fully transparent.
const TransparentIndex = 4

// ErrTruncatedPalette is returned when a palette file is shorter than PaletteSize.
var ErrTruncatedPalette = errors.New("palette file shorter than 768 bytes")

// Color is a palette entry.
type Color struct {
	R, G, B uint8
}

// Palette is a 256-entry RGB color table. It is read-only after parsing
// and may be shared by any number of models.
type Palette struct {
	Colors [256]Color
}

// ParsePalette builds a palette from the last 768 bytes of data.
// Any leading bytes are ignored.
func ParsePalette(data []byte) (*Palette, error) {
	if len(data) < PaletteSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrTruncatedPalette, len(data))
	}
	tail := data[len(data)-PaletteSize:]

	p := &Palette{}
	for i := range p.Colors {
		p.Colors[i] = Color{R: tail[i*3], G: tail[i*3+1], B: tail[i*3+2]}
	}
	return p, nil
}

// ParsePaletteFile reads a palette from disk.
func ParsePaletteFile(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}
	return ParsePalette(data)
}

// Luminance returns the mean channel intensity of entry i in [0,1].
func (p *Palette) Luminance(i uint8) float32 {
	c := p.Colors[i]
	return float32(int(c.R)+int(c.G)+int(c.B)) / (3 * 255)
}

// NRGBA returns entry i as a color, keyed transparent at TransparentIndex.
func (p *Palette) NRGBA(i uint8) color.NRGBA {
	c := p.Colors[i]
	a := uint8(255)
	if i == TransparentIndex {
		a = 0
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
