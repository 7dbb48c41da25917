package pitch

import (
	"fmt"
	"math"
)

// Staff grid constants, in points relative to the baseline.
const (
	// LineCount is the number of staff lines.
	LineCount = 5

	// LineSpacing is the distance between adjacent staff lines.
	LineSpacing = 2 * Step

	// StaffTop is the offset of the top staff line.
	StaffTop = (LineCount - 1) * LineSpacing

	// LineTolerance is how far an offset may sit from a line and still be
	// drawn as a note on that line.
	LineTolerance = 2.0

	// LedgerTolerance is how far an offset may sit from a ledger line
	// position and still count as sitting on it.
	LedgerTolerance = 0.5
)

// Kind says where an offset falls relative to the staff.
type Kind int

const (
	InSpace Kind = iota
	OnLine
	OutsideAbove
	OutsideBelow
)

var kindNames = map[Kind]string{
	InSpace:      "in-space",
	OnLine:       "on-line",
	OutsideAbove: "outside-above",
	OutsideBelow: "outside-below",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the kind by name for JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown position kind %q", b)
}

// Position is the classification of an offset against the staff.
type Position struct {
	Kind Kind `json:"kind"`
	// Line is the staff line index (0 = bottom, 4 = top) for OnLine
	// positions and -1 otherwise.
	Line int `json:"line"`
}

// Classify places offset on a staff line, in a staff space, or outside the
// staff. Offsets within LineTolerance of a line are on that line.
func Classify(offset float64) Position {
	switch {
	case offset < 0:
		return Position{Kind: OutsideBelow, Line: -1}
	case offset > StaffTop:
		return Position{Kind: OutsideAbove, Line: -1}
	case nearLine(offset, LineTolerance):
		return Position{Kind: OnLine, Line: int(math.Round(offset / LineSpacing))}
	default:
		return Position{Kind: InSpace, Line: -1}
	}
}

// Outside reports whether offset lies beyond the five staff lines.
func Outside(offset float64) bool {
	return offset < 0 || offset > StaffTop
}

// HeadOnLine reports whether a note head at offset is drawn crossed by a
// line, a staff line or a ledger line alike. Heads that are not on a line
// are drawn filled so nothing shows through them.
func HeadOnLine(offset float64) bool {
	return nearLine(offset, LineTolerance)
}

// LedgerLines returns the offsets of the ledger lines needed to reach offset
// from the staff, ordered bottom to top. It returns nil for offsets on the
// staff.
//
// A note in a ledger space takes the line on its far side too, so the run
// always encloses the note: -25 yields [-30 -20 -10] and 45 yields [50].
func LedgerLines(offset float64) []float64 {
	if !Outside(offset) {
		return nil
	}

	onLine := nearLine(offset, LedgerTolerance)
	var lines []float64

	if offset < 0 {
		start := math.Floor(offset/LineSpacing) * LineSpacing
		if onLine {
			start = math.Round(offset/LineSpacing) * LineSpacing
		}
		for o := start; o < 0; o += LineSpacing {
			lines = append(lines, o)
		}
		return lines
	}

	end := math.Ceil(offset/LineSpacing) * LineSpacing
	if onLine {
		end = math.Round(offset/LineSpacing) * LineSpacing
	}
	for o := float64(StaffTop + LineSpacing); o <= end; o += LineSpacing {
		lines = append(lines, o)
	}
	return lines
}

// nearLine reports whether offset is within tol of a multiple of LineSpacing.
func nearLine(offset, tol float64) bool {
	r := math.Abs(math.Mod(offset, LineSpacing))
	return r < tol || r > LineSpacing-tol
}

// Resolution bundles everything the layout needs to know about one pitch.
type Resolution struct {
	Name        Name      `json:"name"`
	Offset      int       `json:"offset"`
	Position    Position  `json:"position"`
	HeadOnLine  bool      `json:"head_on_line"`
	LedgerLines []float64 `json:"ledger_lines,omitempty"`
}

// Resolve looks up n and classifies its offset. It fails with UNKNOWN_PITCH
// for names outside the vocabulary.
func Resolve(n Name) (Resolution, error) {
	off, err := OffsetOf(n)
	if err != nil {
		return Resolution{}, err
	}
	o := float64(off)
	return Resolution{
		Name:        n,
		Offset:      off,
		Position:    Classify(o),
		HeadOnLine:  HeadOnLine(o),
		LedgerLines: LedgerLines(o),
	}, nil
}
