package pipeline

import (
	"strings"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pitch"
)

// Selection merges pitches picked by name and by violin string into one set
// in vocabulary order, each pitch once. Picking nothing selects every pitch.
func Selection(names, stringGroups []string) ([]pitch.Name, error) {
	if len(names) == 0 && len(stringGroups) == 0 {
		return pitch.Names(), nil
	}

	picked, err := pitch.Parse(trimAll(names))
	if err != nil {
		return nil, err
	}
	for _, g := range trimAll(stringGroups) {
		ps, ok := pitch.StringPitches(strings.ToUpper(g))
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown string %q (want SOL, RÉ, LÁ or MI)", g)
		}
		picked = append(picked, ps...)
	}

	set := make(map[pitch.Name]bool, len(picked))
	for _, p := range picked {
		set[p] = true
	}
	out := make([]pitch.Name, 0, len(set))
	for _, p := range pitch.Names() {
		if set[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func trimAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
