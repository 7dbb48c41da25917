// Package sheet plans whole practice documents: pages of stacked staves,
// each filled with a freshly drawn note sequence.
//
// Planning happens in two passes. Sequences are drawn first, in page and
// staff order, from a single random source so a seeded sheet is
// reproducible. Staves are then laid out concurrently; [staff.Build] keeps no
// state, so the workers share nothing.
//
//	doc, err := sheet.Plan(ctx, sheet.Options{
//	    Pitches:       pitch.Names(),
//	    NotesPerStaff: 12,
//	    Mode:          sequence.Random,
//	})
package sheet

import (
	"context"
	"math/rand/v2"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pitch"
	"github.com/matzehuels/staffsheet/pkg/sequence"
	"github.com/matzehuels/staffsheet/pkg/staff"
)

// PageSize is a page size in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Standard page sizes.
var (
	A4     = PageSize{Width: 21 * staff.Centimeter, Height: 29.7 * staff.Centimeter}
	Letter = PageSize{Width: 8.5 * staff.Inch, Height: 11 * staff.Inch}
)

// PageSizes maps names accepted on the command line to sizes.
var PageSizes = map[string]PageSize{
	"a4":     A4,
	"letter": Letter,
}

// Limits and defaults.
const (
	MaxStavesPerPage = 6
	MaxPages         = 100
	MaxNotesPerStaff = 17

	MinStaffGap = 3 * staff.Centimeter
	MaxStaffGap = 20 * staff.Centimeter

	DefaultStavesPerPage = 6
	DefaultStaffGap      = 5 * staff.Centimeter
	DefaultNotesPerStaff = 17
	DefaultPages         = 1
	DefaultMode          = sequence.Sequential

	// DefaultSideMargin is kept free left and right of every staff.
	DefaultSideMargin = 2 * staff.Centimeter
	// DefaultTopMargin is the distance from the top edge to the first baseline.
	DefaultTopMargin = 3 * staff.Centimeter
)

// Options configures a document. The zero value of every field except
// Pitches is replaced by its default in SetDefaults.
type Options struct {
	Pitches       []pitch.Name  `json:"pitches"`
	StavesPerPage int           `json:"staves_per_page"`
	StaffGap      float64       `json:"staff_gap"` // baseline to baseline, points
	NotesPerStaff int           `json:"notes_per_staff"`
	Pages         int           `json:"pages"`
	Mode          sequence.Mode `json:"mode"`
	// Seed makes random sheets reproducible. Zero draws a fresh sheet on
	// every call.
	Seed     uint64   `json:"seed,omitempty"`
	PageSize PageSize `json:"page_size"`
	// Staff is the template geometry for every staff. BaselineY is set
	// per staff; a zero Width means the page width less the side margins.
	Staff   staff.Geometry `json:"staff"`
	Workers int            `json:"-"`
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.StavesPerPage == 0 {
		o.StavesPerPage = DefaultStavesPerPage
	}
	if o.StaffGap == 0 {
		o.StaffGap = DefaultStaffGap
	}
	if o.NotesPerStaff == 0 {
		o.NotesPerStaff = DefaultNotesPerStaff
	}
	if o.Pages == 0 {
		o.Pages = DefaultPages
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.PageSize == (PageSize{}) {
		o.PageSize = A4
	}
	if o.Staff.Width == 0 {
		width := o.PageSize.Width - 2*DefaultSideMargin
		o.Staff = staff.DefaultGeometry(0, DefaultSideMargin, width)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks every option. It reports EMPTY_PITCH_SET, UNKNOWN_PITCH,
// INVALID_MODE or INVALID_INPUT.
func (o Options) Validate() error {
	if len(o.Pitches) == 0 {
		return errors.New(errors.ErrCodeEmptyPitchSet, "select at least one pitch")
	}
	for _, p := range o.Pitches {
		if !pitch.Known(p) {
			return errors.New(errors.ErrCodeUnknownPitch, "unknown pitch %q", p)
		}
	}
	if _, err := sequence.ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if err := errors.ValidateRange("staves per page", o.StavesPerPage, 1, MaxStavesPerPage); err != nil {
		return err
	}
	if err := errors.ValidateRange("pages", o.Pages, 1, MaxPages); err != nil {
		return err
	}
	if err := errors.ValidateRange("notes per staff", o.NotesPerStaff, 1, MaxNotesPerStaff); err != nil {
		return err
	}
	if o.StaffGap < MinStaffGap-1e-9 || o.StaffGap > MaxStaffGap+1e-9 {
		return errors.New(errors.ErrCodeInvalidInput, "staff gap must be between 3 and 20 cm, got %.2f cm", o.StaffGap/staff.Centimeter)
	}
	if o.PageSize.Width <= 0 || o.PageSize.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "page size must be positive")
	}
	return o.Staff.Validate()
}

// FirstBaseline is the baseline Y of the top staff on every page.
func (o Options) FirstBaseline() float64 {
	return o.PageSize.Height - DefaultTopMargin
}

// BaselineAt returns the baseline Y of staff i on a page.
func (o Options) BaselineAt(i int) float64 {
	return o.FirstBaseline() - float64(i)*o.StaffGap
}

// OffPage counts the staves whose baseline falls below the bottom edge.
// Such staves are still laid out but will not be visible when printed.
func (o Options) OffPage() int {
	n := 0
	for i := o.StavesPerPage - 1; i >= 0 && o.BaselineAt(i) < 0; i-- {
		n++
	}
	return n
}

// Page is one page of staves, top to bottom.
type Page struct {
	Number int            `json:"number"`
	Staves []staff.Layout `json:"staves"`
}

// Document is a planned practice sheet.
type Document struct {
	ID       string   `json:"id"`
	PageSize PageSize `json:"page_size"`
	Options  Options  `json:"options"`
	Pages    []Page   `json:"pages"`
}

// NoteCount returns the number of placed notes across the document.
func (d *Document) NoteCount() int {
	n := 0
	for _, p := range d.Pages {
		for _, s := range p.Staves {
			n += len(s.Notes)
		}
	}
	return n
}

// Truncated returns the number of staves that dropped notes for lack of room.
func (d *Document) Truncated() int {
	n := 0
	for _, p := range d.Pages {
		for _, s := range p.Staves {
			if s.Truncated() {
				n++
			}
		}
	}
	return n
}

// Plan draws a sequence for every staff and lays the staves out. opts is
// defaulted and validated first.
func Plan(ctx context.Context, opts Options) (*Document, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seqs, err := drawSequences(opts)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:       uuid.NewString(),
		PageSize: opts.PageSize,
		Options:  opts,
		Pages:    make([]Page, opts.Pages),
	}
	for p := range doc.Pages {
		doc.Pages[p] = Page{Number: p + 1, Staves: make([]staff.Layout, opts.StavesPerPage)}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for p := range doc.Pages {
		for s := range doc.Pages[p].Staves {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				geom := opts.Staff.At(opts.BaselineAt(s))
				l, err := staff.Build(geom, seqs[p][s], opts.NotesPerStaff)
				if err != nil {
					return err
				}
				doc.Pages[p].Staves[s] = l
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return doc, nil
}

// drawSequences builds every staff's sequence in page/staff order.
func drawSequences(opts Options) ([][][]pitch.Name, error) {
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = sequence.NewSource(opts.Seed)
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	seqs := make([][][]pitch.Name, opts.Pages)
	for p := range seqs {
		seqs[p] = make([][]pitch.Name, opts.StavesPerPage)
		for s := range seqs[p] {
			seq, err := sequence.Build(opts.Pitches, opts.NotesPerStaff, opts.Mode, rng)
			if err != nil {
				return nil, err
			}
			seqs[p][s] = seq
		}
	}
	return seqs, nil
}
