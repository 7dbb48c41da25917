// Package pipeline runs the plan → render pipeline for staffsheet.
//
// The CLI and the preview server both go through a [Runner] so they default,
// validate, log and cache the same way.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Sheet:   sheet.Options{Pitches: pitch.Names(), Pages: 2},
//	    Formats: []string{"pdf", "json"},
//	})
//	pdf := result.Artifacts["pdf"][0]
//
// Artifacts are lists of files: an SVG sheet has one file per page, every
// other format exactly one.
package pipeline

import (
	"time"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/sheet"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPDF

// DefaultScale is the PNG resolution in pixels per point.
const DefaultScale = 2.0

// Options contains all configuration for one pipeline run.
type Options struct {
	Sheet   sheet.Options `json:"sheet"`
	Formats []string      `json:"formats,omitempty"`
	// Scale and Page control the PNG raster.
	Scale float64 `json:"scale,omitempty"`
	Page  int     `json:"page,omitempty"`
	// ClefPath points at the glyph asset; empty or unreadable draws the
	// plain clef stroke.
	ClefPath string `json:"-"`
	// Refresh skips cache reads but still stores fresh artifacts.
	Refresh bool `json:"refresh,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Document *sheet.Document
	// Artifacts maps a format to its files, in page order for SVG.
	Artifacts map[string][][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Pages      int
	Staves     int
	Notes      int
	Truncated  int
	OffPage    int
	PlanTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	PDFHit bool // PDF bytes came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills unset fields, including the sheet options.
func (o *Options) SetDefaults() {
	o.Sheet.SetDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Page == 0 {
		o.Page = 1
	}
}

// Validate checks the render options and the sheet options.
func (o *Options) Validate() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if err := o.Sheet.Validate(); err != nil {
		return err
	}
	if o.Page < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "page must be at least 1, got %d", o.Page)
	}
	if o.wants(FormatPNG) {
		if err := errors.ValidateRange("png page", o.Page, 1, o.Sheet.Pages); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) wants(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}
