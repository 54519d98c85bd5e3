package texture

import (
	"fmt"
	"image"
	"image/color"
)

// DecodeTGA decodes a TGA image file.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10) TGA files.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	// TGA header
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	// colorMapSpec: bytes 3-7 (skip for now)
	// imageSpec: bytes 8-17
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	// Check supported formats
	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	// Skip ID field
	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixelData := data[offset:]

	// Create image
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bytesPerPixel := bpp / 8

	// Check if image is flipped (bit 5 of descriptor = top-to-bottom)
	topToBottom := (descriptor & 0x20) != 0

	if imageType == TGATypeUncompressed {
		expectedSize := width * height * bytesPerPixel
		if len(pixelData) < expectedSize {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}

		for i := 0; i < width*height; i++ {
			setPixel(img, i, width, height, topToBottom, readBGRA(pixelData[i*bytesPerPixel:], bytesPerPixel))
		}
	} else {
		// RLE compressed (type 10)
		if err := decodeTGARLE(img, pixelData, width, height, bytesPerPixel, topToBottom); err != nil {
			return nil, err
		}
	}

	return img, nil
}

// decodeTGARLE decodes RLE-compressed TGA pixel data into an image.
func decodeTGARLE(img *image.RGBA, pixelData []byte, width, height, bytesPerPixel int, topToBottom bool) error {
	pixelCount := width * height
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount && dataIdx < len(pixelData) {
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			if dataIdx+bytesPerPixel > len(pixelData) {
				break
			}
			c := readBGRA(pixelData[dataIdx:], bytesPerPixel)
			dataIdx += bytesPerPixel

			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				setPixel(img, pixelIdx, width, height, topToBottom, c)
				pixelIdx++
			}
		} else {
			// Raw packet - read count pixels
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				if dataIdx+bytesPerPixel > len(pixelData) {
					break
				}
				setPixel(img, pixelIdx, width, height, topToBottom, readBGRA(pixelData[dataIdx:], bytesPerPixel))
				dataIdx += bytesPerPixel
				pixelIdx++
			}
		}
	}

	return nil
}

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// readBGRA reads one BGR(A) pixel.
func readBGRA(p []byte, bytesPerPixel int) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if bytesPerPixel == 4 {
		c.A = p[3]
	}
	return c
}

// setPixel stores pixel index i, flipping rows for bottom-up images.
func setPixel(img *image.RGBA, i, width, height int, topToBottom bool, c color.RGBA) {
	x := i % width
	y := i / width
	if !topToBottom {
		y = height - 1 - y
	}
	img.SetRGBA(x, y, c)
}
