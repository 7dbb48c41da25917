// Package render holds the format conversion shared by every sink.
//
// Practice sheets are drawn as SVG first. [ToPDF] turns one SVG per page into
// a single multi-page PDF using the external rsvg-convert tool (librsvg):
//
//	pages := sink.RenderSVG(doc)
//	pdf, err := render.ToPDF(ctx, pages...)
//
// [Available] reports whether the converter is installed, so callers can
// explain the missing dependency before any work is done.
//
// The sinks themselves live in [sink].
//
// [sink]: github.com/matzehuels/staffsheet/pkg/render/sink
package render
