package eyemap

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/floesche/eyemap.report/internal/eyemap/templates"
)

// PNGRenderer is the raster derivative: it renders the vector form first and
// converts it at the configured scale. Conversion failure is fatal; there is
// deliberately no fallback to returning the SVG instead.
type PNGRenderer struct {
	svg   *SVGRenderer
	scale float64
}

// NewPNGRenderer returns a raster renderer. scale multiplies the vector
// canvas size; values above 1 give crisper output for retina displays.
func NewPNGRenderer(provider templates.Provider, scale float64) *PNGRenderer {
	if scale <= 0 {
		scale = DefaultRasterScale
	}
	return &PNGRenderer{svg: NewSVGRenderer(provider), scale: scale}
}

// Render produces PNG bytes for the unit.
func (r *PNGRenderer) Render(hexes []ProcessedColumn, layout *Layout, legend *Legend) ([]byte, error) {
	svgContent, err := r.svg.Render(hexes, layout, legend)
	if err != nil {
		return nil, err
	}
	img, err := rasterizeSVG(svgContent, layout.Width*r.scale, layout.Height*r.scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &RenderingError{Stage: "png", Msg: "encoding failed", Err: err}
	}
	return buf.Bytes(), nil
}

// rasterizeSVG converts vector markup to an RGBA image of the given size.
func rasterizeSVG(svgContent []byte, width, height float64) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgContent), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, &RenderingError{Stage: "rasterize", Msg: "invalid vector input", Err: err}
	}

	w := int(math.Ceil(width))
	h := int(math.Ceil(height))
	if w <= 0 || h <= 0 {
		return nil, &RenderingError{Stage: "rasterize", Msg: "non-positive raster dimensions"}
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// PNGDataURL wraps PNG bytes as a data URL for inline embedding by the
// downstream page assembler.
func PNGDataURL(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
