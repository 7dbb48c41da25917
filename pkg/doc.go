// Package pkg provides the core libraries for staffsheet, a generator of
// violin note-reading practice sheets.
//
// # Overview
//
// A sheet is a stack of treble staves, each filled with note heads drawn
// from a chosen set of pitches. The pkg directory is organised bottom-up:
//
//  1. [pitch] - the pitch vocabulary and where each pitch sits on a staff
//  2. [sequence] - the order notes are drawn in (sequential or random)
//  3. [staff] - geometry of one staff: lines, clef box, note slots, ledgers
//  4. [sheet] - pages of staves planned from user options
//  5. [render] - SVG, PNG, PDF and JSON sinks
//  6. [pipeline] - orchestration (plan → render) with PDF caching
//
// # Architecture
//
//	Options (pitches, staves, gap, notes, pages, mode)
//	         ↓
//	    [sheet] package (draw sequences, lay out every staff)
//	         ↓
//	    [render/sink] package (paint the page geometry)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/staffsheet/pkg/pitch"
//	    "github.com/matzehuels/staffsheet/pkg/render/sink"
//	    "github.com/matzehuels/staffsheet/pkg/sheet"
//	)
//
//	doc, _ := sheet.Plan(context.Background(), sheet.Options{
//	    Pitches: pitch.Names(),
//	    Pages:   2,
//	})
//	pages := sink.RenderSVG(doc)
//
// Coordinates are page points with Y growing upwards from the bottom edge;
// the sinks flip them for image space.
package pkg
