package pitch

import (
	"slices"

	"github.com/matzehuels/staffsheet/pkg/errors"
)

// Name identifies a diatonic pitch in the fixed vocabulary, e.g. "Sol4".
type Name string

// Step is the vertical distance between two adjacent diatonic pitches.
const Step = 5

// offsets is the pitch table. Mi4 sits on the baseline.
var offsets = map[Name]int{
	"Sol3": -25, "La3": -20, "Si3": -15, "Do4": -10, "Re4": -5,
	"Mi4": 0, "Fa4": 5, "Sol4": 10, "La4": 15, "Si4": 20,
	"Do5": 25, "Re5": 30, "Mi5": 35, "Fa5": 40,
	"Sol5": 45, "La5": 50, "Si5": 55,
}

// names is the vocabulary ordered low to high.
var names = []Name{
	"Sol3", "La3", "Si3", "Do4", "Re4",
	"Mi4", "Fa4", "Sol4", "La4",
	"Si4", "Do5", "Re5", "Mi5",
	"Fa5", "Sol5", "La5", "Si5",
}

// String is a group of pitches played on one violin string.
type String struct {
	Name    string
	Pitches []Name
}

// byString groups the vocabulary by string, lowest string first. Re4 belongs
// to the G string here; the D string starts at Mi4.
var byString = []String{
	{Name: "SOL", Pitches: []Name{"Sol3", "La3", "Si3", "Do4", "Re4"}},
	{Name: "RÉ", Pitches: []Name{"Mi4", "Fa4", "Sol4", "La4"}},
	{Name: "LÁ", Pitches: []Name{"Si4", "Do5", "Re5", "Mi5"}},
	{Name: "MI", Pitches: []Name{"Fa5", "Sol5", "La5", "Si5"}},
}

// Names returns the whole vocabulary ordered from lowest to highest.
// The returned slice is a copy.
func Names() []Name {
	return slices.Clone(names)
}

// Strings returns the vocabulary grouped by violin string.
func Strings() []String {
	out := make([]String, len(byString))
	for i, s := range byString {
		out[i] = String{Name: s.Name, Pitches: slices.Clone(s.Pitches)}
	}
	return out
}

// StringPitches returns the pitches of the named string. Lookup accepts the
// accented and unaccented spellings ("RÉ" and "RE").
func StringPitches(name string) ([]Name, bool) {
	for _, s := range byString {
		if s.Name == name || unaccent(s.Name) == name {
			return slices.Clone(s.Pitches), true
		}
	}
	return nil, false
}

func unaccent(s string) string {
	r := []rune(s)
	for i, c := range r {
		switch c {
		case 'É':
			r[i] = 'E'
		case 'Á':
			r[i] = 'A'
		}
	}
	return string(r)
}

// Known reports whether n is in the vocabulary.
func Known(n Name) bool {
	_, ok := offsets[n]
	return ok
}

// OffsetOf returns the vertical offset of n relative to the staff baseline.
// It fails with UNKNOWN_PITCH for names outside the vocabulary.
func OffsetOf(n Name) (int, error) {
	off, ok := offsets[n]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownPitch, "unknown pitch %q", n)
	}
	return off, nil
}

// Parse converts raw names into pitch names, rejecting any that are not in
// the vocabulary. Duplicates are kept in order.
func Parse(raw []string) ([]Name, error) {
	out := make([]Name, 0, len(raw))
	for _, r := range raw {
		n := Name(r)
		if !Known(n) {
			return nil, errors.New(errors.ErrCodeUnknownPitch, "unknown pitch %q", r)
		}
		out = append(out, n)
	}
	return out, nil
}
