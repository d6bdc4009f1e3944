// Package image1bit provides a 1-bit monochrome image format for LED dot matrix panels.
//
// Pixels are packed eight to a byte, most significant bit first, in row-major
// order. This matches the RAM mirror layout clocked out to DMD style panels.
package image1bit

import (
	"image"
	"image/color"
)

// Bit represents the state of a single monochrome pixel.
type Bit bool

const (
	// On is a lit pixel.
	On Bit = true
	// Off is an unlit pixel.
	Off Bit = false
)

// RGBA converts the Bit to standard RGBA. On maps to white, Off to black.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Standard grayscale conversion: 0.299R + 0.587G + 0.114B
	// then threshold at half intensity.
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// masks maps a bit position within a byte to its mask. Position 0 is the
// leftmost pixel of the byte. Kept as a table since it is on the hot path of
// every pixel write and scan.
var masks = [8]byte{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01}

// HorizontalMSB is a 1-bit image where 8 horizontally adjacent pixels share a
// byte, most significant bit leftmost.
type HorizontalMSB struct {
	Pix    []byte          // Pixel data (8 pixels per byte)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewHorizontalMSB creates a new HorizontalMSB image with the specified
// bounds. The width must be a multiple of 8.
func NewHorizontalMSB(r image.Rectangle) *HorizontalMSB {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &HorizontalMSB{Rect: r}
	}
	if w%8 != 0 {
		panic("image1bit: width must be a multiple of 8")
	}

	stride := w / 8
	return &HorizontalMSB{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *HorizontalMSB) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *HorizontalMSB) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *HorizontalMSB) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit at (x, y). Out of bounds coordinates return Off.
func (p *HorizontalMSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	offset, mask := p.PixOffset(x, y)
	return Bit(p.Pix[offset]&mask != 0)
}

// Set sets the color of the pixel at (x, y).
func (p *HorizontalMSB) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the Bit at (x, y). Out of bounds coordinates are ignored and
// never touch adjacent bytes.
func (p *HorizontalMSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.PixOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

// Fill sets every pixel of the image to b in a single pass over the buffer.
func (p *HorizontalMSB) Fill(b Bit) {
	v := byte(0x00)
	if b {
		v = 0xFF
	}
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// PixOffset returns the byte offset and bit mask for the pixel at (x, y).
// Memory layout: byte = y*Stride + x/8, mask = 0x80 >> (x mod 8).
func (p *HorizontalMSB) PixOffset(x, y int) (offset int, mask byte) {
	offset = (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)/8
	mask = masks[(x-p.Rect.Min.X)&7]
	return
}
