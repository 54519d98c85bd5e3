// Package texture provides image decoding and texture processing utilities.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned for image data no registered decoder accepts.
var ErrUnknownFormat = errors.New("unknown image format")

// Decode decodes PNG, JPEG, BMP or TGA data into RGBA. TGA has no magic
// number so it is selected by the file extension of name.
func Decode(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return ImageToRGBA(img), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ImageToRGBA(img), nil
}

// ImageToRGBA converts any image.Image to *image.RGBA with its origin at 0,0.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// FlipVertical returns a copy of img with rows in reverse order, the layout
// OpenGL expects for textures with a bottom-left origin.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+row]
		dst := out.Pix[(b.Dy()-1-y)*out.Stride:]
		copy(dst[:row], src)
	}
	return out
}
