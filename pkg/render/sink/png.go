package sink

import (
	"bytes"
	"image/png"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/sheet"
	"github.com/matzehuels/staffsheet/pkg/staff"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	clef        *Clef
	scale       float64
	page        int
	strokeWidth float64
}

// WithPNGClef draws the glyph at the start of every staff. Vector glyphs
// fall back to the stroke unless Clef.Rasterize gave them a bitmap.
func WithPNGClef(c *Clef) PNGOption { return func(r *pngRenderer) { r.clef = c } }

// WithScale sets the pixels per point (default 2.0).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPage selects the 1-based page to rasterise (default 1).
func WithPage(n int) PNGOption { return func(r *pngRenderer) { r.page = n } }

// WithPNGStrokeWidth sets the pen width in points.
func WithPNGStrokeWidth(w float64) PNGOption { return func(r *pngRenderer) { r.strokeWidth = w } }

// RenderPNG rasterises one page of doc.
func RenderPNG(doc *sheet.Document, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, page: 1, strokeWidth: DefaultStrokeWidth}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", r.scale)
	}
	if r.page < 1 || r.page > len(doc.Pages) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "page %d out of range 1..%d", r.page, len(doc.Pages))
	}
	return r.render(doc.Pages[r.page-1], doc.PageSize)
}

func (r *pngRenderer) render(p sheet.Page, size sheet.PageSize) ([]byte, error) {
	w := int(math.Ceil(size.Width * r.scale))
	h := int(math.Ceil(size.Height * r.scale))
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(r.scale, r.scale)
	// gg does not scale the pen with the transform.
	dc.SetLineWidth(r.strokeWidth * r.scale)

	flip := func(y float64) float64 { return size.Height - y }
	line := func(s staff.Segment) {
		dc.DrawLine(s.X1, flip(s.Y1), s.X2, flip(s.Y2))
		dc.SetRGB(0, 0, 0)
		dc.Stroke()
	}

	for _, l := range p.Staves {
		for _, s := range l.Lines {
			line(s)
		}
		line(l.Barline)
		r.drawClef(dc, l, line, flip)

		g := l.Geometry
		for _, n := range l.Notes {
			for _, s := range n.Ledgers(g.LedgerLength) {
				line(s)
			}
			if !n.OnLine {
				dc.DrawCircle(n.X, flip(n.Y), g.NoteRadius)
				dc.SetRGB(1, 1, 1)
				dc.Fill()
			}
			dc.DrawCircle(n.X, flip(n.Y), g.NoteRadius)
			dc.SetRGB(0, 0, 0)
			dc.Stroke()
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) drawClef(dc *gg.Context, l staff.Layout, line func(staff.Segment), flip func(float64) float64) {
	if !r.clef.Raster() {
		line(l.ClefFallback())
		return
	}
	c := l.Clef
	b := r.clef.img.Bounds()
	dc.Push()
	dc.Translate(c.X, flip(c.Y+c.H))
	dc.Scale(c.W/float64(b.Dx()), c.H/float64(b.Dy()))
	dc.DrawImage(r.clef.img, -b.Min.X, -b.Min.Y)
	dc.Pop()
}
