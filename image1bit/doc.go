// Package image1bit provides a 1-bit monochrome image format for LED dot matrix panels.
//
// A DMD style panel stores one bit per pixel. Pixels are packed eight to a
// byte, most significant bit first, rows laid out top to bottom.
//
// Memory layout example for an 8-pixel row:
//
//	Pixels: 0  1  2  3  4  5  6  7
//	Values: 1  0  1  0  0  0  0  1
//	Byte:   0xA1
//	        (bit 7 = pixel 0 ... bit 0 = pixel 7)
//
// This package provides:
//
// - Bit: A color type representing a single lit/unlit pixel
// - BitModel: A color model for converting standard Go colors to Bit
// - HorizontalMSB: An image.Image implementation matching the panel RAM layout
//
// Example usage:
//
//	// Create a 32x16 image
//	img := image1bit.NewHorizontalMSB(image.Rect(0, 0, 32, 16))
//
//	// Set a pixel
//	img.SetBit(10, 12, image1bit.On)
//
//	// Get a pixel
//	b := img.BitAt(10, 12)
//	println(b.String())  // Output: On
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package image1bit
