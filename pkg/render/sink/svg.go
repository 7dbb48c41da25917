package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/staffsheet/pkg/sheet"
	"github.com/matzehuels/staffsheet/pkg/staff"
)

// DefaultStrokeWidth is the pen width for lines and head outlines, in points.
const DefaultStrokeWidth = 1.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	clef        *Clef
	strokeWidth float64
}

// WithClef embeds the glyph drawn at the start of every staff. A nil clef
// keeps the fallback stroke.
func WithClef(c *Clef) SVGOption { return func(r *svgRenderer) { r.clef = c } }

// WithStrokeWidth sets the pen width in points.
func WithStrokeWidth(w float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = w } }

// RenderSVG renders every page of doc, one SVG document per page.
func RenderSVG(doc *sheet.Document, opts ...SVGOption) [][]byte {
	pages := make([][]byte, len(doc.Pages))
	for i, p := range doc.Pages {
		pages[i] = RenderPageSVG(p, doc.PageSize, opts...)
	}
	return pages
}

// RenderPageSVG renders a single page of the given size.
func RenderPageSVG(p sheet.Page, size sheet.PageSize, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	flip := func(y float64) float64 { return size.Height - y }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.2fpt" height="%.2fpt">`+"\n",
		size.Width, size.Height, size.Width, size.Height)
	fmt.Fprintf(&buf, `  <rect width="%.2f" height="%.2f" fill="white"/>`+"\n", size.Width, size.Height)
	fmt.Fprintf(&buf, `  <g id="page-%d" stroke="black" stroke-width="%.2f" fill="none">`+"\n", p.Number, r.strokeWidth)

	for i, l := range p.Staves {
		fmt.Fprintf(&buf, `    <g class="staff" id="staff-%d-%d">`+"\n", p.Number, i+1)
		for _, s := range l.Lines {
			writeLine(&buf, s, flip)
		}
		writeLine(&buf, l.Barline, flip)
		r.renderClef(&buf, l, flip)
		for _, n := range l.Notes {
			renderNote(&buf, n, l.Geometry, flip)
		}
		buf.WriteString("    </g>\n")
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{strokeWidth: DefaultStrokeWidth}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *svgRenderer) renderClef(buf *bytes.Buffer, l staff.Layout, flip func(float64) float64) {
	if r.clef == nil {
		writeLine(buf, l.ClefFallback(), flip)
		return
	}
	c := l.Clef
	fmt.Fprintf(buf, `      <image class="clef" x="%.2f" y="%.2f" width="%.2f" height="%.2f" preserveAspectRatio="xMidYMid meet" xlink:href="%s"/>`+"\n",
		c.X, flip(c.Y+c.H), c.W, c.H, r.clef.DataURI())
}

func renderNote(buf *bytes.Buffer, n staff.NoteSlot, g staff.Geometry, flip func(float64) float64) {
	for _, s := range n.Ledgers(g.LedgerLength) {
		writeLine(buf, s, flip)
	}
	fill := "none"
	if !n.OnLine {
		fill = "white"
	}
	fmt.Fprintf(buf, `      <circle class="note" data-pitch="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		n.Pitch, n.X, flip(n.Y), g.NoteRadius, fill)
}

func writeLine(buf *bytes.Buffer, s staff.Segment, flip func(float64) float64) {
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", s.X1, flip(s.Y1), s.X2, flip(s.Y2))
}
