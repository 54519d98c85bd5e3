package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/pkg/math"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestDecodeFormats(t *testing.T) {
	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, testImage()); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, testImage()); err != nil {
		t.Fatal(err)
	}

	// 2×1 uncompressed 24-bit TGA, top-to-bottom: blue then red (BGR order)
	tga := make([]byte, 18)
	tga[2] = TGATypeUncompressed
	tga[12] = 2
	tga[14] = 1
	tga[16] = 24
	tga[17] = 0x20
	tga = append(tga, 255, 0, 0, 0, 0, 255)

	tests := []struct {
		name  string
		file  string
		data  []byte
		check func(*image.RGBA) bool
	}{
		{"png", "a.png", pngBuf.Bytes(), func(img *image.RGBA) bool { return img.RGBAAt(1, 0).G == 255 }},
		{"bmp", "a.bmp", bmpBuf.Bytes(), func(img *image.RGBA) bool { return img.RGBAAt(0, 1).B == 255 }},
		{"tga", "a.TGA", tga, func(img *image.RGBA) bool {
			return img.RGBAAt(0, 0).B == 255 && img.RGBAAt(1, 0).R == 255
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.file, tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !tt.check(img) {
				t.Errorf("unexpected pixels %v", img.Pix)
			}
		})
	}
}

func TestDecodeUnknown(t *testing.T) {
	_, err := Decode("a.png", []byte("definitely not an image"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3×1 RLE 32-bit, bottom-up: one run packet of 3 green pixels
	data := make([]byte, 18)
	data[2] = TGATypeRLE
	data[12] = 3
	data[14] = 1
	data[16] = 32
	data = append(data, 0x80|2, 0, 255, 0, 128)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	rgba := img.(*image.RGBA)
	for x := 0; x < 3; x++ {
		if c := rgba.RGBAAt(x, 0); c.G != 255 || c.A != 128 {
			t.Errorf("pixel %d = %v", x, c)
		}
	}
}

func TestFlipVertical(t *testing.T) {
	flipped := FlipVertical(testImage())
	if flipped.RGBAAt(0, 0).B != 255 || flipped.RGBAAt(0, 1).R != 255 {
		t.Errorf("rows not swapped: %v", flipped.Pix)
	}
}

func TestScrollWraps(t *testing.T) {
	mat := scenegraph.NewMaterial()
	s := Scroll{Speed: math.Vec2{X: 0.01}}

	for i := 0; i < 150; i++ {
		s.Advance(mat)
	}

	if mat.UVOffset.X < 0 || mat.UVOffset.X >= 1 {
		t.Fatalf("offset %f outside [0,1)", mat.UVOffset.X)
	}
	if d := mat.UVOffset.X - 0.5; d > 1e-3 || d < -1e-3 {
		t.Errorf("expected offset ≈0.5 after 150 frames, got %f", mat.UVOffset.X)
	}
	if mat.UVOffset.Y != 0 {
		t.Errorf("expected V offset untouched, got %f", mat.UVOffset.Y)
	}
}
