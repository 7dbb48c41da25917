package staff

import (
	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pitch"
)

// Length units in points.
const (
	Point      = 1.0
	Inch       = 72.0
	Centimeter = Inch / 2.54
)

// Default staff furniture, in points.
const (
	DefaultClefSize     = 70.0
	DefaultClefOffset   = -0.5 * Centimeter
	DefaultClefLift     = 7.0
	DefaultClefGap      = 0.05 * Centimeter
	DefaultRightMargin  = 0.3 * Centimeter
	DefaultNoteRadius   = 4.0
	DefaultLedgerLength = 16.0
)

// Geometry holds the layout parameters of one staff. The caller owns it;
// Build only reads it.
type Geometry struct {
	BaselineY float64 `json:"baseline_y"` // Y of the lowest staff line
	LeftX     float64 `json:"left_x"`     // start of the staff lines
	Width     float64 `json:"width"`      // horizontal extent of the lines

	ClefWidth  float64 `json:"clef_width"`
	ClefHeight float64 `json:"clef_height"`
	ClefOffset float64 `json:"clef_offset"` // clef box left edge relative to LeftX
	ClefLift   float64 `json:"clef_lift"`   // raise above centring on line 2
	ClefGap    float64 `json:"clef_gap"`    // clear space between clef box and first note

	RightMargin  float64 `json:"right_margin"` // kept free before the barline
	NoteRadius   float64 `json:"note_radius"`
	MinSpacing   float64 `json:"min_spacing"` // 0 disables the minimum
	LedgerLength float64 `json:"ledger_length"`
}

// DefaultGeometry returns a staff at the given position with the default
// clef box, margins and note size.
func DefaultGeometry(baselineY, leftX, width float64) Geometry {
	return Geometry{
		BaselineY:    baselineY,
		LeftX:        leftX,
		Width:        width,
		ClefWidth:    DefaultClefSize,
		ClefHeight:   DefaultClefSize,
		ClefOffset:   DefaultClefOffset,
		ClefLift:     DefaultClefLift,
		ClefGap:      DefaultClefGap,
		RightMargin:  DefaultRightMargin,
		NoteRadius:   DefaultNoteRadius,
		MinSpacing:   2 * DefaultNoteRadius,
		LedgerLength: DefaultLedgerLength,
	}
}

// At returns a copy of g moved to a new baseline.
func (g Geometry) At(baselineY float64) Geometry {
	g.BaselineY = baselineY
	return g
}

// BarlineX is the X of the closing barline at the staff's right edge.
func (g Geometry) BarlineX() float64 { return g.LeftX + g.Width }

// TopY is the Y of the top staff line.
func (g Geometry) TopY() float64 { return g.BaselineY + pitch.StaffTop }

// Limit is the rightmost X a note head may reach.
func (g Geometry) Limit() float64 { return g.BarlineX() - g.RightMargin }

// Anchor is the X of the first note centre.
func (g Geometry) Anchor() float64 {
	return g.LeftX + g.ClefOffset + g.ClefWidth + g.ClefGap
}

// LastCenter is the X of the last note centre when the staff is filled.
func (g Geometry) LastCenter() float64 { return g.Limit() - g.NoteRadius }

// UsableWidth is the horizontal room between the anchor and the limit.
func (g Geometry) UsableWidth() float64 { return g.Limit() - g.Anchor() }

// Spacing returns the centre-to-centre distance for targetCount notes.
// It is zero for a single note.
func (g Geometry) Spacing(targetCount int) float64 {
	s, _ := g.spacing(targetCount)
	return s
}

// spacing also reports whether MinSpacing overrode the even fill.
func (g Geometry) spacing(targetCount int) (float64, bool) {
	if targetCount <= 1 {
		return 0, false
	}
	s := (g.LastCenter() - g.Anchor()) / float64(targetCount-1)
	if s < g.MinSpacing {
		return g.MinSpacing, true
	}
	return s, false
}

// LineY returns the Y of staff line k (0 = bottom).
func (g Geometry) LineY(k int) float64 {
	return g.BaselineY + float64(k*pitch.LineSpacing)
}

// Validate rejects geometry no note can be placed on.
func (g Geometry) Validate() error {
	switch {
	case g.Width <= 0:
		return errors.New(errors.ErrCodeInvalidLayout, "staff width must be positive, got %g", g.Width)
	case g.NoteRadius < 0:
		return errors.New(errors.ErrCodeInvalidLayout, "note radius must not be negative, got %g", g.NoteRadius)
	case g.MinSpacing < 0:
		return errors.New(errors.ErrCodeInvalidLayout, "minimum spacing must not be negative, got %g", g.MinSpacing)
	case g.UsableWidth() <= 0:
		return errors.New(errors.ErrCodeInvalidLayout, "no room for notes: clef and margin take the whole %gpt staff", g.Width)
	}
	return nil
}
