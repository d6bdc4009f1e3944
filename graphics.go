package dmd

import (
	"fmt"

	"periph.io/x/devices/v3/dmd/font"
	"periph.io/x/devices/v3/dmd/image1bit"
)

// Mode is the pixel blend applied when writing to the framebuffer. It is a
// parameter of each write, not device state.
type Mode uint8

const (
	// Normal writes the requested pixel value.
	Normal Mode = iota
	// Inverse writes the complement of the requested pixel value, so a
	// primitive drawn with Inverse clears what Normal would light.
	Inverse
	// Toggle XORs the requested value into the existing pixel. Applying the
	// same write twice restores the original state.
	Toggle
	// Or lights the pixel if either the existing or the requested value is
	// lit; it never clears a pixel.
	Or
	// Nor lights the pixel only when both the existing and the requested
	// values are unlit.
	Nor
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Inverse:
		return "Inverse"
	case Toggle:
		return "Toggle"
	case Or:
		return "Or"
	case Nor:
		return "Nor"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// blend computes the new pixel value from the existing and requested values.
// It is pure. A Mode outside the five defined values is a programming error
// and panics rather than corrupting the framebuffer.
func (m Mode) blend(existing, requested image1bit.Bit) image1bit.Bit {
	switch m {
	case Normal:
		return requested
	case Inverse:
		return !requested
	case Toggle:
		return existing != requested
	case Or:
		return existing || requested
	case Nor:
		return !(existing || requested)
	}
	panic("dmd: invalid graphics mode")
}

// DrawLine draws a line from (x1, y1) to (x2, y2), both endpoints inclusive.
// Integer Bresenham, all eight octants. Pixels outside the panel clip.
func (d *Dev) DrawLine(x1, y1, x2, y2 int, mode Mode) {
	d.mu.Lock()
	d.drawLine(x1, y1, x2, y2, mode)
	d.mu.Unlock()
}

func (d *Dev) drawLine(x1, y1, x2, y2 int, mode Mode) {
	dy := y2 - y1
	dx := x2 - x1
	stepx, stepy := 1, 1
	if dy < 0 {
		dy = -dy
		stepy = -1
	}
	if dx < 0 {
		dx = -dx
		stepx = -1
	}
	dy <<= 1
	dx <<= 1

	d.writePixel(x1, y1, mode, true)
	if dx > dy {
		fraction := dy - (dx >> 1)
		for x1 != x2 {
			if fraction >= 0 {
				y1 += stepy
				fraction -= dx
			}
			x1 += stepx
			fraction += dy
			d.writePixel(x1, y1, mode, true)
		}
	} else {
		fraction := dx - (dy >> 1)
		for y1 != y2 {
			if fraction >= 0 {
				x1 += stepx
				fraction -= dy
			}
			y1 += stepy
			fraction += dx
			d.writePixel(x1, y1, mode, true)
		}
	}
}

// DrawBox draws a single pixel rectangle border between the two corners,
// in either order.
func (d *Dev) DrawBox(x1, y1, x2, y2 int, mode Mode) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	d.mu.Lock()
	d.drawLine(x1, y1, x2, y1, mode)
	d.drawLine(x2, y1, x2, y2, mode)
	d.drawLine(x2, y2, x1, y2, mode)
	d.drawLine(x1, y2, x1, y1, mode)
	d.mu.Unlock()
}

// DrawFilledBox fills the rectangle between the two corners, border
// included. Rows are written pixel by pixel since the interior is not
// necessarily byte aligned.
func (d *Dev) DrawFilledBox(x1, y1, x2, y2 int, mode Mode) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	d.mu.Lock()
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			d.writePixel(x, y, mode, true)
		}
	}
	d.mu.Unlock()
}

// DrawCircle draws a circle of the given radius around (xCenter, yCenter).
// Midpoint algorithm with 8-way symmetry, no trigonometry. A radius of 0
// draws the single centre pixel.
func (d *Dev) DrawCircle(xCenter, yCenter, radius int, mode Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if radius <= 0 {
		d.writePixel(xCenter, yCenter, mode, true)
		return
	}
	x, y := 0, radius
	p := (5 - radius*4) / 4
	d.drawCircleSub(xCenter, yCenter, x, y, mode)
	for x < y {
		x++
		if p < 0 {
			p += 2*x + 1
		} else {
			y--
			p += 2*(x-y) + 1
		}
		d.drawCircleSub(xCenter, yCenter, x, y, mode)
	}
}

// drawCircleSub reflects one computed octant point into the others. The
// x == 0 and x == y cases collapse to four points so no pixel is written
// twice, which would cancel out under Toggle.
func (d *Dev) drawCircleSub(cx, cy, x, y int, mode Mode) {
	switch {
	case x == 0:
		d.writePixel(cx, cy+y, mode, true)
		d.writePixel(cx, cy-y, mode, true)
		d.writePixel(cx+y, cy, mode, true)
		d.writePixel(cx-y, cy, mode, true)
	case x == y:
		d.writePixel(cx+x, cy+y, mode, true)
		d.writePixel(cx-x, cy+y, mode, true)
		d.writePixel(cx+x, cy-y, mode, true)
		d.writePixel(cx-x, cy-y, mode, true)
	case x < y:
		d.writePixel(cx+x, cy+y, mode, true)
		d.writePixel(cx-x, cy+y, mode, true)
		d.writePixel(cx+x, cy-y, mode, true)
		d.writePixel(cx-x, cy-y, mode, true)
		d.writePixel(cx+y, cy+x, mode, true)
		d.writePixel(cx-y, cy+x, mode, true)
		d.writePixel(cx+y, cy-x, mode, true)
		d.writePixel(cx-y, cy-x, mode, true)
	}
}

// DrawChar stamps the glyph for character code c with its top left corner at
// (x, y). Set glyph bits write lit pixels and unset bits write unlit ones,
// both through the mode blend, so inverse video is a matter of mode
// selection rather than bitmap inversion. Characters the font does not cover
// are ignored.
func (d *Dev) DrawChar(x, y int, c byte, f *font.Font, mode Mode) {
	g, ok := f.Glyph(c)
	if !ok {
		return
	}
	bpc := f.BytesPerColumn()
	d.mu.Lock()
	for col := 0; col < f.W; col++ {
		for row := 0; row < f.H; row++ {
			on := g[col*bpc+row/8]&(1<<(row%8)) != 0
			d.writePixel(x+col, y+row, mode, on)
		}
	}
	d.mu.Unlock()
}

// DrawString stamps s left to right starting at (x, y), with one blank
// column between characters. Text running off the panel clips.
func (d *Dev) DrawString(x, y int, s string, f *font.Font, mode Mode) {
	for i := 0; i < len(s); i++ {
		d.DrawChar(x, y, s[i], f, mode)
		x += f.W + 1
	}
}

// Pattern selects a deterministic hardware validation fill.
type Pattern uint8

const (
	// PatternAltOn is a pixel checkerboard with (0, 0) lit.
	PatternAltOn Pattern = iota
	// PatternAltOff is a pixel checkerboard with (0, 0) unlit.
	PatternAltOff
	// PatternStripeOn is alternating columns with column 0 lit.
	PatternStripeOn
	// PatternStripeOff is alternating columns with column 0 unlit.
	PatternStripeOff
)

// DrawTestPattern overwrites the whole panel with the selected pattern.
// Each pattern is a pure function of pixel coordinate parity.
func (d *Dev) DrawTestPattern(p Pattern) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for y := 0; y < d.rect.Dy(); y++ {
		for x := 0; x < d.rect.Dx(); x++ {
			var on bool
			switch p {
			case PatternAltOn:
				on = (x+y)%2 == 0
			case PatternAltOff:
				on = (x+y)%2 == 1
			case PatternStripeOn:
				on = x%2 == 0
			case PatternStripeOff:
				on = x%2 == 1
			}
			d.writePixel(x, y, Normal, on)
		}
	}
}
