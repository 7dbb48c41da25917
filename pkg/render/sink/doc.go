// Package sink turns a planned [sheet.Document] into output files.
//
// # Overview
//
// A "sink" draws the computed geometry; it never moves a note. This package
// provides:
//
//   - SVG: one document per page, ready for printing or the browser
//   - PNG: a pure-Go raster of a single page, used for live previews
//   - PDF: every page in one file (requires rsvg-convert)
//   - JSON: the raw geometry for external tools
//
// Sheet coordinates are page points with Y growing upwards. The SVG and PNG
// sinks flip Y while drawing; the JSON sink exports the coordinates as they
// are.
//
// # Drawing Rules
//
// Ledger lines are drawn before heads. A head that sits in a space is filled
// white before its outline is stroked so it masks anything under it; a head
// crossed by a line is only outlined, letting the line show through.
//
// When no clef glyph is supplied (see [LoadClef]) a plain vertical stroke at
// the staff's left edge stands in for it. A missing glyph is never an error.
//
//	clef, err := sink.LoadClef("treble.png")
//	if err != nil {
//	    clef = nil // fall back to the stroke
//	}
//	pages := sink.RenderSVG(doc, sink.WithClef(clef))
//	png, err := sink.RenderPNG(doc, sink.WithPNGClef(clef), sink.WithScale(2))
//	pdf, err := sink.RenderPDF(ctx, doc, sink.WithPDFSVGOptions(sink.WithClef(clef)))
//
// [sheet.Document]: github.com/matzehuels/staffsheet/pkg/sheet.Document
package sink
