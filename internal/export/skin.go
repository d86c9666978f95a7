// Package export writes decoded models out in common interchange formats:
// skins as images, embedded sounds as WAV files and posed meshes as
// Wavefront OBJ.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/chasm-rift/internal/logger"
)

// SkinFormat is an image container for exported skins.
type SkinFormat string

const (
	SkinPNG  SkinFormat = "png"
	SkinWebP SkinFormat = "webp"
	SkinBMP  SkinFormat = "bmp"
)

// ParseSkinFormat validates a format name from config or flags.
func ParseSkinFormat(s string) (SkinFormat, error) {
	switch f := SkinFormat(s); f {
	case SkinPNG, SkinWebP, SkinBMP:
		return f, nil
	}
	return "", fmt.Errorf("unknown skin format %q (want png, webp or bmp)", s)
}

// Ext returns the file extension including the dot.
func (f SkinFormat) Ext() string {
	return "." + string(f)
}

// ScaleNearest enlarges img by an integer factor without filtering, so
// texels stay sharp. A scale below 2 returns the image unchanged.
func ScaleNearest(img image.Image, scale int) image.Image {
	if scale < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WriteSkin encodes img in format f after scaling.
func WriteSkin(w io.Writer, img image.Image, f SkinFormat, scale int) error {
	img = ScaleNearest(img, scale)
	switch f {
	case SkinPNG:
		return png.Encode(w, img)
	case SkinWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	case SkinBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unknown skin format %q", f)
}

// SaveSkin writes img to dir/base plus the format extension and returns
// the path written.
func SaveSkin(dir, base string, img image.Image, f SkinFormat, scale int) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, base+f.Ext())

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteSkin(file, img, f, scale); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Debug("skin exported", zap.String("path", path), zap.Int("scale", scale))
	return path, file.Close()
}
