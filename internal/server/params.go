package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pipeline"
	"github.com/matzehuels/staffsheet/pkg/sequence"
	"github.com/matzehuels/staffsheet/pkg/sheet"
	"github.com/matzehuels/staffsheet/pkg/staff"
)

// optionsFromQuery maps query parameters onto pipeline options. Absent
// parameters keep their defaults.
func optionsFromQuery(q url.Values, format string) (pipeline.Options, error) {
	var opts pipeline.Options
	opts.Formats = []string{format}

	pitches, err := pipeline.Selection(list(q, "pitches"), list(q, "string"))
	if err != nil {
		return opts, err
	}
	opts.Sheet.Pitches = pitches

	ints := []struct {
		key string
		dst *int
	}{
		{"staves", &opts.Sheet.StavesPerPage},
		{"notes", &opts.Sheet.NotesPerStaff},
		{"pages", &opts.Sheet.Pages},
		{"page", &opts.Page},
	}
	for _, p := range ints {
		if err := parseInt(q, p.key, p.dst); err != nil {
			return opts, err
		}
	}
	// Zero would silently become the first page.
	if q.Has("page") && opts.Page < 1 {
		return opts, errors.New(errors.ErrCodeInvalidInput, "page must be at least 1, got %d", opts.Page)
	}

	if v := q.Get("gap"); v != "" {
		cm, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "gap must be a number of centimetres, got %q", v)
		}
		opts.Sheet.StaffGap = cm * staff.Centimeter
	}
	if v := q.Get("scale"); v != "" {
		s, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a number, got %q", v)
		}
		opts.Scale = s
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed must be a non-negative integer, got %q", v)
		}
		opts.Sheet.Seed = seed
	}
	if v := q.Get("mode"); v != "" {
		mode, err := sequence.ParseMode(v)
		if err != nil {
			return opts, err
		}
		opts.Sheet.Mode = mode
	}
	if v := q.Get("page_size"); v != "" {
		size, ok := sheet.PageSizes[strings.ToLower(v)]
		if !ok {
			return opts, errors.New(errors.ErrCodeInvalidInput, "unknown page size %q (want a4 or letter)", v)
		}
		opts.Sheet.PageSize = size
	}
	return opts, nil
}

// list splits every occurrence of key on commas.
func list(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

func parseInt(q url.Values, key string, dst *int) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", key, v)
	}
	*dst = n
	return nil
}
