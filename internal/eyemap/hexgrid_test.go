package eyemap

import (
	"math"
	"testing"
)

func TestHexToAxial(t *testing.T) {
	// With the universe minimum itself, both deltas are zero and q is the
	// fixed alignment offset.
	q, r := HexToAxial(18, 18, 18, 18)
	if q != -3 || r != 0 {
		t.Errorf("HexToAxial(min,min) = (%d,%d), want (-3,0)", q, r)
	}

	q, r = HexToAxial(20, 19, 18, 18)
	if q != -4 || r != -1 {
		t.Errorf("HexToAxial(20,19) = (%d,%d), want (-4,-1)", q, r)
	}
}

// Shifting the whole universe must not change any pairwise pixel distance:
// the axial transform is relative to the universe minima.
func TestHexToAxial_TranslationInvariant(t *testing.T) {
	coords := [][2]int{{18, 18}, {20, 19}, {25, 30}, {19, 26}}
	const shift = 7

	for i := range coords {
		for j := i + 1; j < len(coords); j++ {
			a, b := coords[i], coords[j]

			qa, ra := HexToAxial(a[0], a[1], 18, 18)
			qb, rb := HexToAxial(b[0], b[1], 18, 18)
			xa, ya := AxialToPixel(qa, ra, 6, false)
			xb, yb := AxialToPixel(qb, rb, 6, false)
			d1 := math.Hypot(xb-xa, yb-ya)

			qa, ra = HexToAxial(a[0]+shift, a[1]+shift, 18+shift, 18+shift)
			qb, rb = HexToAxial(b[0]+shift, b[1]+shift, 18+shift, 18+shift)
			xa, ya = AxialToPixel(qa, ra, 6, false)
			xb, yb = AxialToPixel(qb, rb, 6, false)
			d2 := math.Hypot(xb-xa, yb-ya)

			if math.Abs(d1-d2) > 1e-9 {
				t.Errorf("distance %v-%v changed under shift: %v vs %v", a, b, d1, d2)
			}
		}
	}
}

func TestAxialToPixel(t *testing.T) {
	x, y := AxialToPixel(2, 1, 6, false)
	if math.Abs(x-18) > 1e-9 {
		t.Errorf("x = %v, want 18", x)
	}
	wantY := 6 * (math.Sqrt(3)/2*2 + math.Sqrt(3)*1)
	if math.Abs(y-wantY) > 1e-9 {
		t.Errorf("y = %v, want %v", y, wantY)
	}

	mx, my := AxialToPixel(2, 1, 6, true)
	if mx != -x || my != y {
		t.Errorf("mirror = (%v,%v), want (%v,%v)", mx, my, -x, y)
	}
}

func TestHexVertices(t *testing.T) {
	v := HexVertices(10)
	for i, p := range v {
		r := math.Hypot(p[0], p[1])
		if math.Abs(r-10) > 1e-9 {
			t.Errorf("vertex %d at radius %v, want 10", i, r)
		}
	}
	// Flat-top: the first vertex sits on the positive x axis.
	if math.Abs(v[0][0]-10) > 1e-9 || math.Abs(v[0][1]) > 1e-9 {
		t.Errorf("vertex 0 = %v, want (10,0)", v[0])
	}
}

func TestNewLayout(t *testing.T) {
	coords := []ColumnCoordinate{
		{Hex1: 18, Hex2: 18, Region: "ME"},
		{Hex1: 20, Hex2: 19, Region: "ME"},
		{Hex1: 22, Hex2: 24, Region: "ME"},
	}
	cfg := LayoutConfig{HexSize: 6, SpacingFactor: 1.1, Margin: 10, SomaSide: SomaCombined, Region: "ME"}

	l, err := NewLayout(coords, cfg)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Fatalf("degenerate canvas %vx%v", l.Width, l.Height)
	}
	if l.EffectiveSize != 6*1.1 {
		t.Errorf("EffectiveSize = %v, want %v", l.EffectiveSize, 6*1.1)
	}

	// Every cell centre must land on-canvas with at least the hex radius
	// of clearance.
	for _, c := range coords {
		x, y := l.PixelFor(c)
		if x < l.HexRadius || x > l.Width-l.HexRadius {
			t.Errorf("cell %v at x=%v outside canvas width %v", c, x, l.Width)
		}
		if y < l.HexRadius || y > l.Height-l.HexRadius {
			t.Errorf("cell %v at y=%v outside canvas height %v", c, y, l.Height)
		}
	}

	// Legend sits on the right edge unless the page is for the right soma
	// side.
	if l.Legend.X < l.Width/2 {
		t.Errorf("legend at x=%v, want right half of %v-wide canvas", l.Legend.X, l.Width)
	}
	cfg.SomaSide = SomaRight
	lr, err := NewLayout(coords, cfg)
	if err != nil {
		t.Fatalf("NewLayout(right): %v", err)
	}
	if lr.Legend.X > lr.Width/2 {
		t.Errorf("right-soma legend at x=%v, want left half", lr.Legend.X)
	}
}

func TestNewLayout_Errors(t *testing.T) {
	if _, err := NewLayout(nil, LayoutConfig{HexSize: 6, SpacingFactor: 1.1}); err == nil {
		t.Error("empty universe accepted")
	}
	coords := []ColumnCoordinate{{Hex1: 0, Hex2: 0}}
	if _, err := NewLayout(coords, LayoutConfig{HexSize: 0, SpacingFactor: 1.1}); err == nil {
		t.Error("zero hex size accepted")
	}
}
