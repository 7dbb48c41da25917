package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pipeline"
	"github.com/matzehuels/staffsheet/pkg/sequence"
	"github.com/matzehuels/staffsheet/pkg/sheet"
	"github.com/matzehuels/staffsheet/pkg/staff"
)

// sheetFlags holds the flags shared by every command that plans a sheet.
type sheetFlags struct {
	pitches      []string // pitch names, e.g. La4
	stringGroups []string // violin strings whose pitches are added
	staves       int      // staves per page
	gap          float64  // baseline-to-baseline distance in cm
	notes        int      // note heads requested per staff
	pages        int      // page count
	mode         string   // sequential or random
	seed         uint64   // random seed; 0 draws a fresh sheet
	pageSize     string   // a4 or letter
	clef         string   // clef glyph asset
	noCache      bool
}

func (f *sheetFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&f.pitches, "pitches", "p", nil, "pitches to practise, e.g. Mi4,Fa4 (default all)")
	fs.StringSliceVarP(&f.stringGroups, "string", "s", nil, "add every pitch of these strings: SOL, RÉ, LÁ, MI")
	fs.IntVar(&f.staves, "staves", sheet.DefaultStavesPerPage, "staves per page (1-6)")
	fs.Float64Var(&f.gap, "gap", sheet.DefaultStaffGap/staff.Centimeter, "distance between staves in cm (3-20)")
	fs.IntVarP(&f.notes, "notes", "n", sheet.DefaultNotesPerStaff, "note heads per staff (1-17)")
	fs.IntVar(&f.pages, "pages", sheet.DefaultPages, "number of pages")
	fs.StringVarP(&f.mode, "mode", "m", string(sheet.DefaultMode), "note order: sequential, random")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for random mode (0 draws a new sheet)")
	fs.StringVar(&f.pageSize, "page-size", "a4", "page size: a4, letter")
	fs.StringVar(&f.clef, "clef", "", "treble clef image (PNG, JPEG or SVG); a plain stroke is drawn without it")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the PDF cache")
}

// options converts the flags into pipeline options.
func (f *sheetFlags) options() (pipeline.Options, error) {
	var opts pipeline.Options

	pitches, err := pipeline.Selection(f.pitches, f.stringGroups)
	if err != nil {
		return opts, err
	}
	mode, err := sequence.ParseMode(f.mode)
	if err != nil {
		return opts, err
	}
	size, ok := sheet.PageSizes[strings.ToLower(f.pageSize)]
	if !ok {
		return opts, errors.New(errors.ErrCodeInvalidInput, "unknown page size %q (want a4 or letter)", f.pageSize)
	}

	opts.Sheet = sheet.Options{
		Pitches:       pitches,
		StavesPerPage: f.staves,
		StaffGap:      f.gap * staff.Centimeter,
		NotesPerStaff: f.notes,
		Pages:         f.pages,
		Mode:          mode,
		Seed:          f.seed,
		PageSize:      size,
	}
	opts.ClefPath = f.clef
	return opts, nil
}

// parseFormats splits comma-separated format lists and drops blanks.
func parseFormats(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, f := range strings.Split(r, ",") {
			if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
				out = append(out, f)
			}
		}
	}
	if len(out) == 0 {
		return []string{pipeline.DefaultFormat}
	}
	return out
}
