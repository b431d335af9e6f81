// Package texture loads tile atlas images into RGBA pixel buffers.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyAtlas is returned for images with no pixels.
var ErrEmptyAtlas = errors.New("atlas image is empty")

// LoadAtlas reads and decodes an atlas image (PNG, JPEG, BMP, TIFF or WebP).
// BMP atlases have no alpha channel, so magenta is treated as transparent.
func LoadAtlas(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read atlas: %w", err)
	}
	colorKey := strings.EqualFold(filepath.Ext(path), ".bmp")
	img, err := DecodeAtlas(data, colorKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeAtlas decodes image bytes in any registered format.
func DecodeAtlas(data []byte, colorKey bool) (*image.RGBA, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode atlas: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%s: %w", format, ErrEmptyAtlas)
	}
	return ToRGBA(img, colorKey), nil
}

// ToRGBA converts img to a zero-origin *image.RGBA.
// With colorKey set, magenta pixels become transparent black.
func ToRGBA(img image.Image, colorKey bool) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if colorKey {
		ApplyMagentaKey(rgba)
	}
	return rgba
}

// IsMagentaKey reports whether a color is close enough to pure magenta.
// The tolerance absorbs BMP encoder rounding.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey clears magenta pixels in place. RGB is zeroed too so
// linear filtering does not bleed pink into neighbouring texels.
func ApplyMagentaKey(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if IsMagentaKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2]) {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
		}
	}
}

// Checker builds a placeholder atlas of columns x columns cells, each
// cellPx wide, with a distinct color per cell and a dark one-pixel border.
func Checker(columns, cellPx int) *image.RGBA {
	if columns < 1 {
		columns = 1
	}
	if cellPx < 2 {
		cellPx = 2
	}
	size := columns * cellPx
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	border := color.RGBA{R: 20, G: 20, B: 24, A: 255}

	for cy := 0; cy < columns; cy++ {
		for cx := 0; cx < columns; cx++ {
			fill := cellColor(cx, cy, columns)
			for py := 0; py < cellPx; py++ {
				for px := 0; px < cellPx; px++ {
					c := fill
					if px == 0 || py == 0 || px == cellPx-1 || py == cellPx-1 {
						c = border
					}
					img.SetRGBA(cx*cellPx+px, cy*cellPx+py, c)
				}
			}
		}
	}
	return img
}

func cellColor(cx, cy, columns int) color.RGBA {
	step := 255 / columns
	return color.RGBA{
		R: uint8(40 + (cx*step)%216),
		G: uint8(40 + (cy*step)%216),
		B: uint8(200 - ((cx+cy)*step/2)%160),
		A: 255,
	}
}
