package sink

import (
	"context"

	"github.com/matzehuels/staffsheet/pkg/render"
	"github.com/matzehuels/staffsheet/pkg/sheet"
)

// Converter turns SVG pages into one PDF.
type Converter func(ctx context.Context, pages ...[]byte) ([]byte, error)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
	convert Converter
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// WithConverter replaces rsvg-convert.
func WithConverter(c Converter) PDFOption {
	return func(r *pdfRenderer) { r.convert = c }
}

// RenderPDF renders every page of doc into a single PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, doc *sheet.Document, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{convert: render.ToPDF}
	for _, opt := range opts {
		opt(&r)
	}
	return r.convert(ctx, RenderSVG(doc, r.svgOpts...)...)
}
