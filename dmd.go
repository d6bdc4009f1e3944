// Package dmd controls a Freetronics DMD monochrome LED matrix panel via SPI.
//
// The panel is row multiplexed: four interleaved row groups are driven in
// turn from a RAM mirror of the pixel state. Common panels are 32x16;
// horizontally chained panels are wider multiples of 32.
//
// See the examples for how to use this package.
package dmd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/dmd/image1bit"
)

// rowGroups is the number of interleaved row groups. Two binary row select
// lines address one of four groups; each group lights every fourth row.
const rowGroups = 4

// Opts is the configuration for the DMD panel.
type Opts struct {
	// Panel dimensions in pixels
	W int // Width (default: 32, must be a multiple of 8)
	H int // Height (default: 16, must be a multiple of 4)

	// Control pins. The pixel data itself is clocked out over SPI.
	A    gpio.PinOut // Row select, low bit
	B    gpio.PinOut // Row select, high bit
	SCLK gpio.PinOut // Latch: pulsing high then low moves the shift registers to the row drivers
	NOE  gpio.PinOut // Output enable: high lights the selected rows, low blanks the panel

	// BusCS is the chip select of another device sharing the SPI bus
	// (optional, nil if the bus is dedicated). While it reads low the other
	// device owns the bus and ScanOnce skips its refresh.
	BusCS gpio.PinIn
}

// Dev is the device handle for a DMD panel.
type Dev struct {
	// Communication
	c     conn.Conn   // SPI connection to the panel shift registers
	a, b  gpio.PinOut // Row select pins
	sclk  gpio.PinOut // Latch pin
	noe   gpio.PinOut // Output enable pin
	busCS gpio.PinIn  // Shared bus claim query (optional)

	// Panel geometry
	rect     image.Rectangle
	rowBytes int // Bytes per pixel row
	groupLen int // Rows driven together in one scan slice

	// RAM mirror of the panel pixels, guarded by mu so a scan never reads a
	// byte mid update.
	mu      sync.Mutex
	frame   *image1bit.HorizontalMSB
	scratch []byte // Scan slice assembly buffer, reused across calls

	// Scan cursor: the next row group to transfer, in [0, rowGroups).
	slice int

	// State
	halted bool
}

// NewSPI creates a new DMD device connected via SPI.
//
// The SPI port is configured for 4MHz, Mode0 (CPOL=0, CPHA=0), 8-bit
// transfers. The A, B, SCLK and NOE GPIO pins must be provided and
// configured as outputs.
//
// opts must carry the control pins; W and H default to a single 32x16 panel.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		return nil, errors.New("dmd: options with control pins are required")
	}

	w, h := opts.W, opts.H
	if w == 0 {
		w = 32
	}
	if h == 0 {
		h = 16
	}
	if w < 8 || w%8 != 0 {
		return nil, errors.New("dmd: width must be a positive multiple of 8")
	}
	if h < rowGroups || h%rowGroups != 0 {
		return nil, errors.New("dmd: height must be a positive multiple of 4")
	}
	if opts.A == nil || opts.B == nil || opts.SCLK == nil || opts.NOE == nil {
		return nil, errors.New("dmd: A, B, SCLK and NOE pins are required")
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("dmd: failed to connect SPI: %w", err)
	}

	rowBytes := w / 8
	groupLen := h / rowGroups
	d := &Dev{
		c:        c,
		a:        opts.A,
		b:        opts.B,
		sclk:     opts.SCLK,
		noe:      opts.NOE,
		busCS:    opts.BusCS,
		rect:     image.Rect(0, 0, w, h),
		rowBytes: rowBytes,
		groupLen: groupLen,
		frame:    image1bit.NewHorizontalMSB(image.Rect(0, 0, w, h)),
		scratch:  make([]byte, rowBytes*groupLen),
	}

	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init drives the control pins to their idle state: panel blanked, latch
// low, row group 0 selected.
func (d *Dev) init() error {
	if err := d.noe.Out(gpio.Low); err != nil {
		return fmt.Errorf("dmd: failed to blank rows: %w", err)
	}
	if err := d.sclk.Out(gpio.Low); err != nil {
		return fmt.Errorf("dmd: failed to reset latch: %w", err)
	}
	if err := d.a.Out(gpio.Low); err != nil {
		return fmt.Errorf("dmd: failed to drive row select A: %w", err)
	}
	if err := d.b.Out(gpio.Low); err != nil {
		return fmt.Errorf("dmd: failed to drive row select B: %w", err)
	}
	return nil
}

// WritePixel blends a pixel value into the framebuffer at (x, y).
// Coordinates outside the panel are ignored without touching the buffer.
func (d *Dev) WritePixel(x, y int, mode Mode, on bool) {
	d.mu.Lock()
	d.writePixel(x, y, mode, on)
	d.mu.Unlock()
}

// writePixel is the single point where framebuffer bits change: locate the
// byte and mask, read the current bit, blend, commit one full byte.
// Callers must hold d.mu.
func (d *Dev) writePixel(x, y int, mode Mode, on bool) {
	if !(image.Point{X: x, Y: y}.In(d.rect)) {
		return
	}
	existing := d.frame.BitAt(x, y)
	d.frame.SetBit(x, y, mode.blend(existing, image1bit.Bit(on)))
}

// PixelAt returns the current framebuffer state of the pixel at (x, y).
// Coordinates outside the panel read as Off.
func (d *Dev) PixelAt(x, y int) image1bit.Bit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame.BitAt(x, y)
}

// Clear sets every pixel of the framebuffer, all off or all on, in a single
// pass over the buffer.
func (d *Dev) Clear(on bool) {
	d.mu.Lock()
	d.frame.Fill(image1bit.Bit(on))
	d.mu.Unlock()
}

// ColorModel returns the color model of the panel.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the panel.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write writes raw pixel data to the framebuffer in HorizontalMSB format.
// The data must be exactly (W/8)*H bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errors.New("dmd: halted")
	}
	if len(pixels) != len(d.frame.Pix) {
		return 0, errors.New("dmd: invalid buffer size")
	}
	d.mu.Lock()
	copy(d.frame.Pix, pixels)
	d.mu.Unlock()
	return len(pixels), nil
}

// Draw draws an image onto the framebuffer. The dst rectangle specifies the
// destination region on the panel; it is clipped to the panel bounds. The
// panel itself is only updated by the scan loop.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("dmd: halted")
	}
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}
	d.mu.Lock()
	draw.Draw(d.frame, dst, src, sp, draw.Src)
	d.mu.Unlock()
	return nil
}

// ScanOnce transfers one quarter of the framebuffer to the panel: the row
// group under the scan cursor is blanked, selected, shifted out, latched and
// relit, then the cursor advances to the next group, wrapping after the
// last.
//
// Each call refreshes a quarter of the panel, so ScanOnce must be invoked
// repeatedly at a high steady rate, from a tight loop or a timer; it has no
// internal delay. A flicker-free image needs the full four-slice cycle to
// complete above the human flicker threshold.
//
// If another device currently claims the shared SPI bus (see Opts.BusCS) the
// refresh is dropped and the cursor stays put; the same slice is retried on
// the next call. A dropped refresh is not an error.
func (d *Dev) ScanOnce() error {
	if d.halted {
		return errors.New("dmd: halted")
	}
	if d.busCS != nil && d.busCS.Read() == gpio.Low {
		return nil
	}

	// Assemble the slice under the lock; bus I/O happens outside it so
	// drawing is never blocked on the SPI transfer.
	d.mu.Lock()
	slice := d.slice
	n := 0
	for i := 0; i < d.rowBytes; i++ {
		// The panel's row shift registers are chained furthest first.
		for g := d.groupLen - 1; g >= 0; g-- {
			d.scratch[n] = d.frame.Pix[(slice+g*rowGroups)*d.rowBytes+i]
			n++
		}
	}
	d.mu.Unlock()

	// Blank the rows while the shift registers and row select change to
	// avoid ghosting.
	if err := d.noe.Out(gpio.Low); err != nil {
		return fmt.Errorf("dmd: failed to blank rows: %w", err)
	}
	if err := d.a.Out(gpio.Level(slice&1 != 0)); err != nil {
		return fmt.Errorf("dmd: failed to drive row select A: %w", err)
	}
	if err := d.b.Out(gpio.Level(slice&2 != 0)); err != nil {
		return fmt.Errorf("dmd: failed to drive row select B: %w", err)
	}
	if err := d.c.Tx(d.scratch, nil); err != nil {
		return fmt.Errorf("dmd: failed to shift slice: %w", err)
	}
	if err := d.sclk.Out(gpio.High); err != nil {
		return fmt.Errorf("dmd: failed to latch: %w", err)
	}
	if err := d.sclk.Out(gpio.Low); err != nil {
		return fmt.Errorf("dmd: failed to latch: %w", err)
	}
	if err := d.noe.Out(gpio.High); err != nil {
		return fmt.Errorf("dmd: failed to enable rows: %w", err)
	}

	// The cursor only advances once the slice is on the panel, so an
	// errored transfer repeats its slice instead of skipping it.
	d.slice = (slice + 1) % rowGroups
	return nil
}

// Halt blanks the panel and stops accepting operations.
// After calling Halt, the device will not respond to further commands until
// it is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	if err := d.noe.Out(gpio.Low); err != nil {
		return fmt.Errorf("dmd: failed to blank rows: %w", err)
	}
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("dmd.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
