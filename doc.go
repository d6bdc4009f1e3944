// Package dmd controls a Freetronics DMD monochrome LED matrix panel via SPI.
//
// The DMD is a 512 LED dot matrix display arranged in a 32×16 layout.
// The driver keeps a RAM mirror of the panel's pixel state and clocks it out
// through a row multiplexed scan, four interleaved row groups per full
// refresh. It implements the display.Drawer interface from periph.io.
//
// # Panel Layout in RAM
//
//	                        32 pixels (4 bytes)
//	    top left  ----------------------------------------
//	              |                                      |
//	     Panel    |        512 pixels (64 bytes)         | 16 pixels
//	              |                                      |
//	              ---------------------------------------- bottom right
//
// Pixels are packed eight to a byte, most significant bit leftmost, rows top
// to bottom. Wider displays built from horizontally chained panels use a
// width that is the corresponding multiple of 32.
//
// # Hardware Connection
//
// Connect the DMD to your system via SPI plus four GPIO pins:
//
//	Panel Pin   → System Pin
//	GND         → GND
//	A           → GPIO (row select, low bit)
//	B           → GPIO (row select, high bit)
//	CLK         → SPI Clock (SCLK)
//	R           → SPI Data (MOSI)
//	SCLK        → GPIO (latch)
//	nOE         → GPIO (output enable)
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/dmd"
//		"periph.io/x/devices/v3/dmd/font"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiBus, _ := spireg.Open("")
//
//		// Create device
//		dev, _ := dmd.NewSPI(spiBus, &dmd.Opts{
//			W:    32,
//			H:    16,
//			A:    gpioreg.ByName("GPIO22"),
//			B:    gpioreg.ByName("GPIO23"),
//			SCLK: gpioreg.ByName("GPIO24"),
//			NOE:  gpioreg.ByName("GPIO18"),
//		})
//		defer dev.Halt()
//
//		// Draw into the RAM mirror
//		dev.DrawString(0, 4, "HELLO", font.Font5x7, dmd.Normal)
//		dev.DrawBox(0, 0, 31, 15, dmd.Normal)
//
//		// Keep the panel refreshed
//		for {
//			dev.ScanOnce()
//		}
//	}
//
// # Scanning
//
// ScanOnce transfers one quarter of the framebuffer: the row group under the
// scan cursor. Four successive calls refresh the whole panel. The routine
// has no internal delay; call it from a tight loop or a periodic timer at a
// rate high enough that the full four-slice cycle beats the human flicker
// threshold (a complete cycle rate of 100Hz or more, i.e. 400+ calls per
// second, is comfortable).
//
// Drawing and scanning may run from different goroutines: pixel writes are
// committed a whole byte at a time under an internal lock, and the scan
// copies its slice under the same lock before touching the bus.
//
// # Shared SPI Bus
//
// If the SPI bus is shared with another device, pass that device's chip
// select pin as Opts.BusCS. While the pin reads low the other device owns
// the bus and ScanOnce drops the refresh instead of risking a corrupted
// transfer; the same slice is retried on the next call.
//
// # Graphics Modes
//
// Every pixel write blends through a graphics mode:
//
//	dmd.Normal   // draw the requested pixels
//	dmd.Inverse  // draw their complement (inverse video)
//	dmd.Toggle   // XOR into the existing pixels
//	dmd.Or       // merge with the existing pixels
//	dmd.Nor      // lit only where both are unlit
//
// # Fonts
//
// Two glyph geometries are provided by the font subpackage: the compact
// Font5x7 covering printable ASCII, and the tall Font6x16 for large clock
// and 4 digit number displays with a colon in the centre.
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
//
// Draw renders into the RAM mirror through the standard image/draw
// machinery; the physical panel picks the result up on the next scan cycle.
package dmd
