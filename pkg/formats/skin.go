package formats

import "image"

// MinBackgroundLuminance excludes near-black entries from background selection.
const MinBackgroundLuminance = 0.2

// Skin is the raw indexed texture of a model.
type Skin struct {
	Width   int
	Height  int
	Indices []byte // Width*Height palette indices, row-major
}

// ConvertSkin maps indexed texels through the palette into an RGBA image.
// Texels using TransparentIndex get alpha 0, all others alpha 255.
// Missing trailing indices are left fully transparent.
func ConvertSkin(indices []byte, width, height int, pal *Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	n := width * height
	if len(indices) < n {
		n = len(indices)
	}
	for i := 0; i < n; i++ {
		idx := indices[i]
		c := pal.Colors[idx]
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		if idx == TransparentIndex {
			img.Pix[o+3] = 0
		} else {
			img.Pix[o+3] = 255
		}
	}
	return img
}

// DominantBackground returns the most frequent palette index among texels
// brighter than MinBackgroundLuminance. Ties go to the lowest index; 0 is
// returned when no texel qualifies.
func DominantBackground(indices []byte, pal *Palette) uint8 {
	var hist [256]int
	for _, idx := range indices {
		if pal.Luminance(idx) > MinBackgroundLuminance {
			hist[idx]++
		}
	}

	best := 0
	for i := 1; i < len(hist); i++ {
		if hist[i] > hist[best] {
			best = i
		}
	}
	return uint8(best)
}

// Image converts the skin using pal.
func (s *Skin) Image(pal *Palette) *image.NRGBA {
	return ConvertSkin(s.Indices, s.Width, s.Height, pal)
}
