// Package rgb565 provides a 16-bit RGB565 color and image format for the GC9A01 display.
//
// Pixels are stored one uint16 per pixel in row-major order. The value layout is
// (R5 << 11) | (G6 << 5) | B5. PutBE produces the byte order expected on the wire.
package rgb565

import (
	"image"
	"image/color"
)

// Color is a 16-bit RGB565 color.
type Color uint16

// Common colors.
const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Red   Color = 0xF800
	Green Color = 0x07E0
	Blue  Color = 0x001F
)

// FromRGB converts 8-bit channel intensities to RGB565.
// Each channel is scaled with rounding, not truncation, to avoid banding.
func FromRGB(r, g, b uint8) Color {
	r5 := (uint32(r)*31 + 127) / 255
	g6 := (uint32(g)*63 + 127) / 255
	b5 := (uint32(b)*31 + 127) / 255
	return Color(r5<<11 | g6<<5 | b5)
}

// RGB returns the 8-bit channel intensities of c.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint32(c>>11) & 0x1F
	g6 := uint32(c>>5) & 0x3F
	b5 := uint32(c) & 0x1F
	return uint8((r5*255 + 15) / 31), uint8((g6*255 + 31) / 63), uint8((b5*255 + 15) / 31)
}

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xFFFF
}

func toRGB565(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts colors to Color.
var Model = color.ModelFunc(toRGB565)

// Convert returns the RGB565 value of any color.Color.
func Convert(c color.Color) Color {
	return Model.Convert(c).(Color)
}

// PutBE encodes px into dst as big-endian byte pairs.
// dst must be at least 2*len(px) bytes long.
func PutBE(dst []byte, px []uint16) {
	for i, p := range px {
		dst[2*i] = byte(p >> 8)
		dst[2*i+1] = byte(p)
	}
}

// Image is an RGB565 image stored row-major, one uint16 per pixel.
type Image struct {
	Pix    []uint16        // Pixel data
	Stride int             // Pixels per row
	Rect   image.Rectangle // Image bounds
}

// NewImage creates a new Image with the specified bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]uint16, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the Color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	return Color(p.Pix[p.PixOffset(x, y)])
}

// Set sets the color of the pixel at (x, y).
func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint16(Convert(c))
}

// SetRGB565 sets the Color of the pixel at (x, y) without conversion.
func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint16(c)
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

// Fill sets every pixel of r that lies within the image to c.
func (p *Image) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return
	}
	row := p.Pix[p.PixOffset(r.Min.X, r.Min.Y):p.PixOffset(r.Max.X-1, r.Min.Y)+1]
	for i := range row {
		row[i] = uint16(c)
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		i := p.PixOffset(r.Min.X, y)
		copy(p.Pix[i:i+len(row)], row)
	}
}

// Blit copies px, row-major with r.Dx() pixels per row, into r.
// r must lie within the image and len(px) must equal the area of r.
func (p *Image) Blit(r image.Rectangle, px []uint16) {
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := p.PixOffset(r.Min.X, y)
		copy(p.Pix[i:i+w], px[(y-r.Min.Y)*w:])
	}
}

// Pixels returns a row-major copy of the pixels in r clipped to the image.
func (p *Image) Pixels(r image.Rectangle) []uint16 {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return nil
	}
	w := r.Dx()
	out := make([]uint16, w*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := p.PixOffset(r.Min.X, y)
		copy(out[(y-r.Min.Y)*w:], p.Pix[i:i+w])
	}
	return out
}
