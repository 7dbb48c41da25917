package pipeline

import (
	"testing"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pitch"
	"github.com/matzehuels/staffsheet/pkg/sheet"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if len(o.Formats) != 1 || o.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v", o.Formats)
	}
	if o.Scale != DefaultScale || o.Page != 1 {
		t.Errorf("Scale/Page = %v/%d", o.Scale, o.Page)
	}
	if o.Sheet.StavesPerPage != sheet.DefaultStavesPerPage {
		t.Error("sheet defaults not applied")
	}
}

func TestValidate(t *testing.T) {
	base := func() Options {
		o := Options{Sheet: sheet.Options{Pitches: pitch.Names()}}
		o.SetDefaults()
		return o
	}
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"negative scale", func(o *Options) { o.Scale = -1 }, errors.ErrCodeInvalidInput},
		{"negative page", func(o *Options) { o.Page = -3 }, errors.ErrCodeInvalidInput},
		{"png page past end", func(o *Options) { o.Formats = []string{"png"}; o.Page = 2 }, errors.ErrCodeInvalidInput},
		{"no pitches", func(o *Options) { o.Sheet.Pitches = nil }, errors.ErrCodeEmptyPitchSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base()
			tt.modify(&o)
			if err := o.Validate(); !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}

	o := base()
	o.Page = 5 // ignored without png
	if err := o.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSelection(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		strs    []string
		want    []pitch.Name
		wantErr errors.Code
	}{
		{name: "nothing picks all", want: pitch.Names()},
		{name: "names in vocabulary order", names: []string{"La4", "Mi4", "La4"}, want: []pitch.Name{"Mi4", "La4"}},
		{name: "string group", strs: []string{"MI"}, want: []pitch.Name{"Fa5", "Sol5", "La5", "Si5"}},
		{name: "unaccented lower case", strs: []string{"re"}, want: []pitch.Name{"Mi4", "Fa4", "Sol4", "La4"}},
		{name: "union", names: []string{" Sol3 "}, strs: []string{"LÁ"}, want: []pitch.Name{"Sol3", "Si4", "Do5", "Re5", "Mi5"}},
		{name: "blank entries select nothing", names: []string{" "}, want: []pitch.Name{}},
		{name: "unknown pitch", names: []string{"Do9"}, wantErr: errors.ErrCodeUnknownPitch},
		{name: "unknown string", strs: []string{"DO"}, wantErr: errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Selection(tt.names, tt.strs)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Selection error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Selection error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Selection = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Selection = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}
