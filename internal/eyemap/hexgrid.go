package eyemap

import (
	"fmt"
	"math"
)

// axialOffsetQ is subtracted from every q coordinate. The constant has no
// clean geometric derivation; it is the alignment the published report pages
// were built against and must not change, or regenerated maps shift against
// existing overlays.
const axialOffsetQ = -3

// HexToAxial converts raw (hex1, hex2) grid coordinates to axial (q, r)
// relative to the supplied minima for the coordinate universe being drawn.
func HexToAxial(hex1, hex2, minHex1, minHex2 int) (q, r int) {
	d1 := hex1 - minHex1
	d2 := hex2 - minHex2
	q = -(d1 - d2) + axialOffsetQ
	r = -d2
	return q, r
}

// AxialToPixel converts axial coordinates to pixel offsets for a flat-top
// hexagonal lattice with pitch size. When mirror is set the x axis is
// negated; the flag reads backwards relative to the soma-side names but its
// sense is load-bearing for parity with the existing left/right report pages.
func AxialToPixel(q, r int, size float64, mirror bool) (x, y float64) {
	x = size * 1.5 * float64(q)
	y = size * (math.Sqrt(3)/2*float64(q) + math.Sqrt(3)*float64(r))
	if mirror {
		x = -x
	}
	return x, y
}

// HexVertices returns the six vertices of a flat-top hexagon of the given
// radius centred on the origin, at 60 degree steps. The same polygon is
// reused for every cell; only the translation differs.
func HexVertices(radius float64) [6][2]float64 {
	var v [6][2]float64
	for i := 0; i < 6; i++ {
		a := math.Pi / 3 * float64(i)
		v[i][0] = radius * math.Cos(a)
		v[i][1] = radius * math.Sin(a)
	}
	return v
}

// Rect is an axis-aligned placement box in pixel space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Layout fixes the pixel geometry of one eyemap: the axial transform inputs,
// the canvas size, the translation that brings all cells on-canvas, and the
// legend and layer-control placements.
type Layout struct {
	HexRadius     float64
	EffectiveSize float64
	Mirror        bool
	MinHex1       int
	MinHex2       int
	Margin        float64
	Width         float64
	Height        float64
	OffsetX       float64
	OffsetY       float64
	Legend        Rect
	Controls      Rect
}

// LayoutConfig parameterises NewLayout.
type LayoutConfig struct {
	HexSize       float64
	SpacingFactor float64
	Margin        float64
	Mirror        bool
	SomaSide      SomaSide
	Region        string
}

// Legend and control panel sizing.
const (
	legendWidth     = 90.0
	legendBinHeight = 16.0
	legendPad       = 8.0
)

// NewLayout computes the canvas geometry for the given coordinate universe.
// The bounding box pads each extreme cell centre by the hexagon radius plus
// the margin. The legend is right-aligned by default and flips to the left
// edge for right-soma pages; the layer-control panel sits on the opposite
// edge from the legend, sized from the region's layer count.
func NewLayout(coords []ColumnCoordinate, cfg LayoutConfig) (*Layout, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("layout requires at least one coordinate")
	}
	if cfg.HexSize <= 0 || cfg.SpacingFactor <= 0 {
		return nil, fmt.Errorf("hex size and spacing factor must be positive")
	}

	minHex1, minHex2 := coords[0].Hex1, coords[0].Hex2
	for _, c := range coords[1:] {
		if c.Hex1 < minHex1 {
			minHex1 = c.Hex1
		}
		if c.Hex2 < minHex2 {
			minHex2 = c.Hex2
		}
	}

	l := &Layout{
		HexRadius:     cfg.HexSize,
		EffectiveSize: cfg.HexSize * cfg.SpacingFactor,
		Mirror:        cfg.Mirror,
		MinHex1:       minHex1,
		MinHex2:       minHex2,
		Margin:        cfg.Margin,
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range coords {
		q, r := HexToAxial(c.Hex1, c.Hex2, minHex1, minHex2)
		x, y := AxialToPixel(q, r, l.EffectiveSize, l.Mirror)
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	pad := l.HexRadius + cfg.Margin
	l.OffsetX = -minX + pad
	l.OffsetY = -minY + pad
	l.Width = (maxX - minX) + 2*pad
	l.Height = (maxY - minY) + 2*pad

	// Widen the canvas for the legend and control panel side areas.
	ctrl := ControlDimensionsFor(cfg.Region)
	sidePanel := math.Max(legendWidth, ctrl.PanelWidth) + legendPad
	l.OffsetX += sidePanel
	l.Width += 2 * sidePanel

	legendHeight := 5*legendBinHeight + 2*legendPad
	legendRight := cfg.SomaSide != SomaRight
	if legendRight {
		l.Legend = Rect{X: l.Width - legendWidth - legendPad, Y: legendPad, Width: legendWidth, Height: legendHeight}
		l.Controls = Rect{X: legendPad, Width: ctrl.PanelWidth, Height: ctrl.PanelHeight}
	} else {
		l.Legend = Rect{X: legendPad, Y: legendPad, Width: legendWidth, Height: legendHeight}
		l.Controls = Rect{X: l.Width - ctrl.PanelWidth - legendPad, Width: ctrl.PanelWidth, Height: ctrl.PanelHeight}
	}
	// Control panel hangs below the region's vertical extent, clamped to
	// the canvas.
	l.Controls.Y = math.Min(l.Height-ctrl.PanelHeight-legendPad, legendHeight+2*legendPad)
	if l.Controls.Y < 0 {
		l.Controls.Y = 0
	}

	return l, nil
}

// PixelFor returns the on-canvas centre of a coordinate.
func (l *Layout) PixelFor(c ColumnCoordinate) (x, y float64) {
	q, r := HexToAxial(c.Hex1, c.Hex2, l.MinHex1, l.MinHex2)
	x, y = AxialToPixel(q, r, l.EffectiveSize, l.Mirror)
	return x + l.OffsetX, y + l.OffsetY
}
