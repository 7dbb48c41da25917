package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/staffsheet/pkg/cache"
	"github.com/matzehuels/staffsheet/pkg/observability"
	"github.com/matzehuels/staffsheet/pkg/render"
	"github.com/matzehuels/staffsheet/pkg/render/sink"
	"github.com/matzehuels/staffsheet/pkg/sheet"
	"github.com/matzehuels/staffsheet/pkg/staff"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no results between runs, so multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Convert turns SVG pages into a PDF. Nil uses rsvg-convert.
	Convert sink.Converter
	// Rasterize turns a vector clef into a bitmap for PNG output. Nil uses
	// rsvg-convert when it is installed.
	Rasterize sink.Rasterizer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute plans the sheet and renders every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Plan
	planStart := time.Now()
	doc, err := r.Plan(ctx, opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Document = doc
	result.Stats.PlanTime = time.Since(planStart)
	result.Stats.Pages = len(doc.Pages)
	result.Stats.Staves = len(doc.Pages) * opts.Sheet.StavesPerPage
	result.Stats.Notes = doc.NoteCount()
	result.Stats.Truncated = doc.Truncated()
	result.Stats.OffPage = opts.Sheet.OffPage()

	r.Logger.Info("planned sheet",
		"pages", result.Stats.Pages,
		"notes", result.Stats.Notes,
		"mode", opts.Sheet.Mode,
		"duration", result.Stats.PlanTime)
	if result.Stats.Truncated > 0 {
		r.Logger.Warn("staves ran out of room", "truncated", result.Stats.Truncated)
	}
	if result.Stats.OffPage > 0 {
		r.Logger.Warn("staves run off the page",
			"off_page", result.Stats.OffPage,
			"staves", opts.Sheet.StavesPerPage,
			"gap_cm", fmt.Sprintf("%.1f", opts.Sheet.StaffGap/staff.Centimeter))
	}

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	clef := r.loadClef(ctx, opts)
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, doc, clef, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.PDFHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Plan lays out a document and reports it to the pipeline hooks.
func (r *Runner) Plan(ctx context.Context, opts sheet.Options) (*sheet.Document, error) {
	start := time.Now()
	observability.Pipeline().OnPlanStart(ctx, opts.Pages, opts.StavesPerPage)
	doc, err := sheet.Plan(ctx, opts)
	notes := 0
	if doc != nil {
		notes = doc.NoteCount()
	}
	observability.Pipeline().OnPlanComplete(ctx, notes, time.Since(start), err)
	return doc, err
}

// RenderWithCacheInfo renders doc, serving the PDF from the cache when its
// SVG pages were converted before. The flag reports a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *sheet.Document, clef *sink.Clef, opts Options) (map[string][][]byte, bool, error) {
	hit := false
	convert := r.Convert
	if convert == nil {
		convert = render.ToPDF
	}

	cached := func(ctx context.Context, pages ...[]byte) ([]byte, error) {
		key := r.Keyer.ArtifactKey(cache.HashPages(pages), cache.ArtifactKeyOpts{Format: FormatPDF})
		if !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				observability.Cache().OnCacheHit(ctx, FormatPDF)
				r.Logger.Debug("pdf from cache", "key", key[:16])
				hit = true
				return data, nil
			}
			observability.Cache().OnCacheMiss(ctx, FormatPDF)
		}

		data, err := convert(ctx, pages...)
		if err != nil {
			return nil, err
		}
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, FormatPDF, len(data))
		}
		return data, nil
	}

	artifacts, err := Render(ctx, doc, clef, cached, opts)
	if err != nil {
		return nil, false, err
	}
	return artifacts, hit, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// loadClef reads the glyph at opts.ClefPath. Failures are logged and yield
// nil, which the sinks draw as the plain clef stroke. A vector glyph is
// rasterized when PNG output is requested.
func (r *Runner) loadClef(ctx context.Context, opts Options) *sink.Clef {
	path := opts.ClefPath
	if path == "" {
		return nil
	}
	clef, err := sink.LoadClef(path)
	if err != nil {
		r.Logger.Warn("clef image unavailable, drawing plain clef", "path", path, "err", err)
		return nil
	}
	if clef.Raster() || !opts.wants(FormatPNG) {
		return clef
	}

	rasterize := r.Rasterize
	if rasterize == nil {
		if !render.Available() {
			r.Logger.Debug("rsvg-convert missing, png keeps the plain clef", "path", path)
			return clef
		}
		rasterize = render.ToPNG
	}
	if err := clef.Rasterize(ctx, rasterize, opts.Scale); err != nil {
		r.Logger.Warn("clef rasterize failed, png keeps the plain clef", "path", path, "err", err)
	}
	return clef
}
