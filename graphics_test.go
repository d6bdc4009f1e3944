package dmd

import (
	"image"
	"testing"

	"periph.io/x/devices/v3/dmd/font"
	"periph.io/x/devices/v3/dmd/image1bit"
)

// litPixels collects the coordinates of every lit pixel on the panel.
func litPixels(d *Dev) map[image.Point]bool {
	lit := map[image.Point]bool{}
	b := d.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if d.PixelAt(x, y) == image1bit.On {
				lit[image.Point{X: x, Y: y}] = true
			}
		}
	}
	return lit
}

func wantExactly(t *testing.T, d *Dev, want []image.Point) {
	t.Helper()
	lit := litPixels(d)
	for _, p := range want {
		if !lit[p] {
			t.Errorf("pixel (%d, %d) is Off, want On", p.X, p.Y)
		}
		delete(lit, p)
	}
	for p := range lit {
		t.Errorf("pixel (%d, %d) is On, want Off", p.X, p.Y)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Normal, "Normal"},
		{Inverse, "Inverse"},
		{Toggle, "Toggle"},
		{Or, "Or"},
		{Nor, "Nor"},
		{Mode(9), "Mode(9)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestBlend(t *testing.T) {
	const on, off = image1bit.On, image1bit.Off
	tests := []struct {
		name                      string
		mode                      Mode
		existing, requested, want image1bit.Bit
	}{
		{"normal sets", Normal, off, on, on},
		{"normal clears", Normal, on, off, off},
		{"inverse complements on", Inverse, off, on, off},
		{"inverse complements off", Inverse, on, off, on},
		{"toggle flips", Toggle, off, on, on},
		{"toggle flips back", Toggle, on, on, off},
		{"toggle keeps on request off", Toggle, on, off, on},
		{"or merges", Or, off, on, on},
		{"or never clears", Or, on, off, on},
		{"or stays off", Or, off, off, off},
		{"nor lights empty", Nor, off, off, on},
		{"nor clears lit", Nor, on, off, off},
		{"nor rejects request on lit", Nor, on, on, off},
		{"nor rejects requested", Nor, off, on, off},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.blend(tt.existing, tt.requested); got != tt.want {
				t.Errorf("%v.blend(%v, %v) = %v, want %v",
					tt.mode, tt.existing, tt.requested, got, tt.want)
			}
		})
	}
}

func TestBlendInvalidModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("blend with an out-of-range mode should panic")
		}
	}()
	Mode(9).blend(image1bit.Off, image1bit.On)
}

func TestToggleInvolution(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)

	// Seed an arbitrary state.
	dev.WritePixel(3, 3, Normal, true)
	dev.WritePixel(4, 3, Normal, false)

	for _, p := range []image.Point{{3, 3}, {4, 3}} {
		before := dev.PixelAt(p.X, p.Y)
		dev.WritePixel(p.X, p.Y, Toggle, true)
		dev.WritePixel(p.X, p.Y, Toggle, true)
		if got := dev.PixelAt(p.X, p.Y); got != before {
			t.Errorf("double Toggle at (%d, %d) = %v, want %v", p.X, p.Y, got, before)
		}
	}
}

func TestOrNeverClears(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)

	dev.WritePixel(5, 5, Normal, true)
	dev.WritePixel(5, 5, Or, false)
	if dev.PixelAt(5, 5) != image1bit.On {
		t.Error("Or with a false request cleared a lit pixel")
	}

	// Neighbouring bits in the same byte stay untouched.
	dev.WritePixel(6, 5, Or, true)
	if dev.PixelAt(5, 5) != image1bit.On {
		t.Error("Or on a neighbour corrupted the adjacent bit")
	}
}

func TestDrawLine(t *testing.T) {
	pt := func(x, y int) image.Point { return image.Point{X: x, Y: y} }
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           []image.Point
	}{
		{"single point", 0, 0, 0, 0, []image.Point{pt(0, 0)}},
		{"horizontal", 0, 0, 3, 0, []image.Point{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0)}},
		{"horizontal reversed", 3, 0, 0, 0, []image.Point{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0)}},
		{"vertical", 2, 1, 2, 4, []image.Point{pt(2, 1), pt(2, 2), pt(2, 3), pt(2, 4)}},
		{"diagonal", 0, 0, 3, 3, []image.Point{pt(0, 0), pt(1, 1), pt(2, 2), pt(3, 3)}},
		{"anti-diagonal", 0, 3, 3, 0, []image.Point{pt(0, 3), pt(1, 2), pt(2, 1), pt(3, 0)}},
		{"shallow", 0, 0, 4, 2, []image.Point{pt(0, 0), pt(1, 1), pt(2, 1), pt(3, 2), pt(4, 2)}},
		{"steep", 0, 0, 2, 4, []image.Point{pt(0, 0), pt(1, 1), pt(1, 2), pt(2, 3), pt(2, 4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, _, _ := newTestDev(t, nil)
			dev.DrawLine(tt.x1, tt.y1, tt.x2, tt.y2, Normal)
			wantExactly(t, dev, tt.want)
		})
	}
}

func TestDrawLineClips(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)

	// Endpoints beyond the panel clip instead of corrupting memory.
	dev.DrawLine(-4, 8, 35, 8, Normal)
	for x := 0; x < 32; x++ {
		if dev.PixelAt(x, 8) != image1bit.On {
			t.Errorf("PixelAt(%d, 8) = Off, want On", x)
		}
	}
	if len(litPixels(dev)) != 32 {
		t.Errorf("lit %d pixels, want 32", len(litPixels(dev)))
	}
}

func TestDrawBox(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawBox(2, 2, 10, 5, Normal)

	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			inRect := x >= 2 && x <= 10 && y >= 2 && y <= 5
			border := inRect && (x == 2 || x == 10 || y == 2 || y == 5)
			want := image1bit.Bit(border)
			if got := dev.PixelAt(x, y); got != want {
				t.Errorf("PixelAt(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawBoxNormalizesCorners(t *testing.T) {
	a, _, _ := newTestDev(t, nil)
	b, _, _ := newTestDev(t, nil)

	a.DrawBox(2, 2, 10, 5, Normal)
	b.DrawBox(10, 5, 2, 2, Normal)

	litA, litB := litPixels(a), litPixels(b)
	if len(litA) != len(litB) {
		t.Fatalf("corner order changed the box: %d vs %d lit pixels", len(litA), len(litB))
	}
	for p := range litA {
		if !litB[p] {
			t.Errorf("pixel (%d, %d) lit in one corner order only", p.X, p.Y)
		}
	}
}

func TestDrawFilledBox(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawFilledBox(10, 5, 2, 2, Normal) // corners swapped on purpose

	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			want := image1bit.Bit(x >= 2 && x <= 10 && y >= 2 && y <= 5)
			if got := dev.PixelAt(x, y); got != want {
				t.Errorf("PixelAt(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawCircleRadius0(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawCircle(16, 8, 0, Normal)
	wantExactly(t, dev, []image.Point{{X: 16, Y: 8}})
}

func TestDrawCircleSymmetry(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawCircle(16, 8, 5, Normal)

	lit := litPixels(dev)
	if len(lit) == 0 {
		t.Fatal("circle drew nothing")
	}
	for p := range lit {
		if !lit[image.Point{X: 32 - p.X, Y: p.Y}] {
			t.Errorf("pixel (%d, %d) has no mirror across the vertical axis", p.X, p.Y)
		}
		if !lit[image.Point{X: p.X, Y: 16 - p.Y}] {
			t.Errorf("pixel (%d, %d) has no mirror across the horizontal axis", p.X, p.Y)
		}
	}

	// Cardinal points sit radius pixels from the centre.
	for _, p := range []image.Point{{11, 8}, {21, 8}, {16, 3}, {16, 13}} {
		if !lit[p] {
			t.Errorf("cardinal point (%d, %d) is Off, want On", p.X, p.Y)
		}
	}
}

func TestDrawCircleToggleTwiceErases(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)

	// Each circle pixel must be plotted exactly once for Toggle to be an
	// involution over the whole primitive.
	for _, radius := range []int{0, 1, 4, 5, 7} {
		dev.DrawCircle(16, 8, radius, Toggle)
		dev.DrawCircle(16, 8, radius, Toggle)
		if lit := litPixels(dev); len(lit) != 0 {
			t.Errorf("radius %d: %d pixels remain after double Toggle, want 0", radius, len(lit))
		}
	}
}

func TestDrawChar(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)

	// '!' in the 5x7 font lights rows 0-4 and 6 of column 2 only.
	dev.DrawChar(0, 0, '!', font.Font5x7, Normal)

	want := []image.Point{
		{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 4}, {X: 2, Y: 6},
	}
	wantExactly(t, dev, want)
}

func TestDrawCharInverseVideo(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawChar(0, 0, '!', font.Font5x7, Inverse)

	// Inverse video: the glyph cell is lit except where the glyph is set.
	if dev.PixelAt(2, 0) != image1bit.Off {
		t.Error("glyph pixel (2, 0) = On under Inverse, want Off")
	}
	if dev.PixelAt(0, 0) != image1bit.On {
		t.Error("background pixel (0, 0) = Off under Inverse, want On")
	}
	if dev.PixelAt(2, 5) != image1bit.On {
		t.Error("background pixel (2, 5) = Off under Inverse, want On")
	}
	// Outside the 5x7 cell nothing changes.
	if dev.PixelAt(5, 0) != image1bit.Off {
		t.Error("pixel (5, 0) outside the glyph cell was written")
	}
}

func TestDrawCharUncovered(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawChar(0, 0, 0x01, font.Font5x7, Normal)
	if lit := litPixels(dev); len(lit) != 0 {
		t.Errorf("uncovered character lit %d pixels, want 0", len(lit))
	}
}

func TestDrawCharTallFont(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawChar(0, 0, '1', font.Font6x16, Normal)

	// The '1' stem fills rows 0-14 of column 3.
	for row := 0; row <= 14; row++ {
		if dev.PixelAt(3, row) != image1bit.On {
			t.Errorf("stem pixel (3, %d) = Off, want On", row)
		}
	}
	if dev.PixelAt(3, 15) != image1bit.Off {
		t.Error("pixel (3, 15) = On, want Off (bottom row unused)")
	}
}

func TestDrawString(t *testing.T) {
	dev, _, _ := newTestDev(t, nil)
	dev.DrawString(0, 0, "HI", font.Font5x7, Normal)

	// 'H' column 0 is a full vertical bar.
	for row := 0; row <= 6; row++ {
		if dev.PixelAt(0, row) != image1bit.On {
			t.Errorf("'H' pixel (0, %d) = Off, want On", row)
		}
	}
	// One blank column between characters.
	for row := 0; row <= 6; row++ {
		if dev.PixelAt(5, row) != image1bit.Off {
			t.Errorf("gap pixel (5, %d) = On, want Off", row)
		}
	}
	// 'I' starts at column 6; its stem is column 8.
	for row := 0; row <= 6; row++ {
		if dev.PixelAt(8, row) != image1bit.On {
			t.Errorf("'I' pixel (8, %d) = Off, want On", row)
		}
	}
}

func TestDrawTestPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		lit     func(x, y int) bool
	}{
		{"alternating pixels, origin on", PatternAltOn, func(x, y int) bool { return (x+y)%2 == 0 }},
		{"alternating pixels, origin off", PatternAltOff, func(x, y int) bool { return (x+y)%2 == 1 }},
		{"stripes, column 0 on", PatternStripeOn, func(x, y int) bool { return x%2 == 0 }},
		{"stripes, column 0 off", PatternStripeOff, func(x, y int) bool { return x%2 == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, _, _ := newTestDev(t, nil)
			dev.Clear(true) // patterns overwrite whatever is on screen
			dev.DrawTestPattern(tt.pattern)
			for y := 0; y < 16; y++ {
				for x := 0; x < 32; x++ {
					want := image1bit.Bit(tt.lit(x, y))
					if got := dev.PixelAt(x, y); got != want {
						t.Fatalf("PixelAt(%d, %d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}
