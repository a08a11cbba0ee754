package colorspace

import "testing"

func TestNRGBADifferenceIdenticalIsZero(t *testing.T) {
	cs := NRGBA{}
	a := []byte{120, 60, 200, 255}
	if d := cs.Difference(a, a); d != 0 {
		t.Errorf("Difference(a, a) = %d, want 0", d)
	}
}

func TestNRGBADifferenceMonotonic(t *testing.T) {
	cs := NRGBA{}
	red := []byte{255, 0, 0, 255}
	nearRed := []byte{245, 10, 10, 255}
	white := []byte{255, 255, 255, 255}

	dNear := cs.Difference(red, nearRed)
	dFar := cs.Difference(red, white)
	if dNear >= dFar {
		t.Errorf("a nearby color (%d) should differ less than a distant one (%d)", dNear, dFar)
	}
}

func TestNRGBADifferenceWithAlphaCapsOnTransparency(t *testing.T) {
	cs := NRGBA{}
	ref := []byte{255, 0, 0, 255}
	transparentMatch := []byte{255, 0, 0, 0} // same color, fully transparent
	d := cs.DifferenceWithAlpha(ref, transparentMatch)
	if d != 0 {
		t.Errorf("DifferenceWithAlpha with alpha=0 = %d, want 0 (alphaDiff caps it)", d)
	}
}

func TestNRGBAOpacityReadsAlphaChannel(t *testing.T) {
	cs := NRGBA{}
	if got := cs.Opacity([]byte{1, 2, 3, 128}); got != 128 {
		t.Errorf("Opacity = %d, want 128", got)
	}
}

func TestGray8DifferenceAbsolute(t *testing.T) {
	cs := Gray8{}
	if got := cs.Difference([]byte{10}, []byte{50}); got != 40 {
		t.Errorf("Difference(10,50) = %d, want 40", got)
	}
	if got := cs.Difference([]byte{50}, []byte{10}); got != 40 {
		t.Errorf("Difference(50,10) = %d, want 40 (symmetric)", got)
	}
}

func TestGray8OpacityAlwaysOpaque(t *testing.T) {
	cs := Gray8{}
	if got := cs.Opacity([]byte{0}); got != 255 {
		t.Errorf("Gray8 Opacity = %d, want 255 (no alpha channel)", got)
	}
}

func TestGray8PixelSize(t *testing.T) {
	if (Gray8{}).PixelSize() != 1 {
		t.Error("Gray8.PixelSize() != 1")
	}
	if (NRGBA{}).PixelSize() != 4 {
		t.Error("NRGBA.PixelSize() != 4")
	}
}
