package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/staffsheet/pkg/render/sink"
	"github.com/matzehuels/staffsheet/pkg/sheet"
)

// Render generates output artifacts in the requested formats. convert turns
// SVG pages into a PDF; nil uses rsvg-convert.
func Render(ctx context.Context, doc *sheet.Document, clef *sink.Clef, convert sink.Converter, opts Options) (map[string][][]byte, error) {
	artifacts := make(map[string][][]byte, len(opts.Formats))
	svgOpts := []sink.SVGOption{sink.WithClef(clef)}

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}

		var files [][]byte
		var err error

		switch format {
		case FormatSVG:
			files = sink.RenderSVG(doc, svgOpts...)
		case FormatPNG:
			var data []byte
			data, err = sink.RenderPNG(doc,
				sink.WithPNGClef(clef),
				sink.WithScale(opts.Scale),
				sink.WithPage(opts.Page))
			files = [][]byte{data}
		case FormatPDF:
			pdfOpts := []sink.PDFOption{sink.WithPDFSVGOptions(svgOpts...)}
			if convert != nil {
				pdfOpts = append(pdfOpts, sink.WithConverter(convert))
			}
			var data []byte
			data, err = sink.RenderPDF(ctx, doc, pdfOpts...)
			files = [][]byte{data}
		case FormatJSON:
			var data []byte
			data, err = sink.RenderJSON(doc)
			files = [][]byte{data}
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = files
	}

	return artifacts, nil
}
