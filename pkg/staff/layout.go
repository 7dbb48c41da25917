package staff

import (
	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pitch"
)

// Segment is a straight line from (X1, Y1) to (X2, Y2).
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Rect is an axis-aligned box. Y is the bottom edge.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NoteSlot is one placed note head.
type NoteSlot struct {
	Pitch    pitch.Name     `json:"pitch"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Offset   int            `json:"offset"`
	Position pitch.Position `json:"position"`
	// OnLine is true when a staff or ledger line crosses the head.
	OnLine bool `json:"on_line"`
	// LedgerLineYs holds the absolute Y of each ledger line, bottom to top.
	LedgerLineYs []float64 `json:"ledger_line_ys,omitempty"`
}

// Ledgers returns the ledger line segments for the slot, centred on the head.
func (n NoteSlot) Ledgers(length float64) []Segment {
	if len(n.LedgerLineYs) == 0 {
		return nil
	}
	half := length / 2
	out := make([]Segment, len(n.LedgerLineYs))
	for i, y := range n.LedgerLineYs {
		out[i] = Segment{X1: n.X - half, Y1: y, X2: n.X + half, Y2: y}
	}
	return out
}

// Layout is the computed geometry of one staff.
type Layout struct {
	Geometry  Geometry                 `json:"geometry"`
	Lines     [pitch.LineCount]Segment `json:"lines"`
	Barline   Segment                  `json:"barline"`
	Clef      Rect                     `json:"clef"`
	Notes     []NoteSlot               `json:"notes"`
	Requested int                      `json:"requested"`
}

// Truncated reports whether fewer notes were placed than requested.
func (l Layout) Truncated() bool { return len(l.Notes) < l.Requested }

// ClefFallback is drawn instead of the clef glyph when none is available: a
// vertical stroke at LeftX spanning the staff.
func (l Layout) ClefFallback() Segment {
	g := l.Geometry
	return Segment{X1: g.LeftX, Y1: g.BaselineY, X2: g.LeftX, Y2: g.TopY()}
}

// Build lays out seq on the staff described by g, spacing the notes as if
// targetCount of them were to be drawn. It stops early, without error, at the
// first note whose head would cross the right margin, and never places more
// than len(seq) notes.
//
// It fails with INVALID_LAYOUT for a non-positive targetCount or degenerate
// geometry and with UNKNOWN_PITCH if seq holds a name outside the vocabulary.
func Build(g Geometry, seq []pitch.Name, targetCount int) (Layout, error) {
	if targetCount <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidLayout, "target note count must be positive, got %d", targetCount)
	}
	if err := g.Validate(); err != nil {
		return Layout{}, err
	}

	l := Layout{
		Geometry:  g,
		Barline:   Segment{X1: g.BarlineX(), Y1: g.BaselineY, X2: g.BarlineX(), Y2: g.TopY()},
		Clef:      clefBox(g),
		Requested: targetCount,
	}
	for k := range l.Lines {
		y := g.LineY(k)
		l.Lines[k] = Segment{X1: g.LeftX, Y1: y, X2: g.BarlineX(), Y2: y}
	}

	spacing, clamped := g.spacing(targetCount)
	exactFill := targetCount > 1 && !clamped
	limit := g.Limit()

	l.Notes = make([]NoteSlot, 0, min(len(seq), targetCount))
	for i, name := range seq {
		if i == targetCount {
			break
		}
		x := g.Anchor() + float64(i)*spacing
		if exactFill && i == targetCount-1 {
			// Land the last note on the margin exactly rather than a rounding
			// error past it.
			x = g.LastCenter()
		}
		if x+g.NoteRadius > limit {
			break
		}

		res, err := pitch.Resolve(name)
		if err != nil {
			return Layout{}, err
		}
		l.Notes = append(l.Notes, slotFor(g, res, x))
	}
	return l, nil
}

func slotFor(g Geometry, res pitch.Resolution, x float64) NoteSlot {
	s := NoteSlot{
		Pitch:    res.Name,
		X:        x,
		Y:        g.BaselineY + float64(res.Offset),
		Offset:   res.Offset,
		Position: res.Position,
		OnLine:   res.HeadOnLine,
	}
	if len(res.LedgerLines) > 0 {
		s.LedgerLineYs = make([]float64, len(res.LedgerLines))
		for i, off := range res.LedgerLines {
			s.LedgerLineYs[i] = g.BaselineY + off
		}
	}
	return s
}

// clefBox anchors the clef on the second line from the bottom, lifted by
// ClefLift.
func clefBox(g Geometry) Rect {
	return Rect{
		X: g.LeftX + g.ClefOffset,
		Y: g.LineY(1) - g.ClefHeight/2 + g.ClefLift,
		W: g.ClefWidth,
		H: g.ClefHeight,
	}
}
