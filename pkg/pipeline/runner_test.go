package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/staffsheet/pkg/cache"
	"github.com/matzehuels/staffsheet/pkg/pitch"
	"github.com/matzehuels/staffsheet/pkg/sheet"
	"github.com/matzehuels/staffsheet/pkg/staff"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// countingConverter stands in for rsvg-convert.
type countingConverter struct{ calls int }

func (c *countingConverter) convert(_ context.Context, pages ...[]byte) ([]byte, error) {
	c.calls++
	return append([]byte("%PDF-"), byte('0'+len(pages))), nil
}

func TestExecuteAllFormats(t *testing.T) {
	conv := &countingConverter{}
	r := NewRunner(nil, nil, quietLogger())
	r.Convert = conv.convert

	res, err := r.Execute(context.Background(), Options{
		Sheet:   sheet.Options{Pitches: pitch.Names(), Pages: 2, StavesPerPage: 3},
		Formats: []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON},
		Scale:   0.5,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if n := len(res.Artifacts[FormatSVG]); n != 2 {
		t.Errorf("svg files = %d, want one per page", n)
	}
	for _, f := range []string{FormatPNG, FormatPDF, FormatJSON} {
		if n := len(res.Artifacts[f]); n != 1 {
			t.Errorf("%s files = %d, want 1", f, n)
		}
	}
	if got := string(res.Artifacts[FormatPDF][0]); got != "%PDF-2" {
		t.Errorf("pdf = %q, want both pages converted", got)
	}
	if res.Stats.Pages != 2 || res.Stats.Staves != 6 || res.Stats.Notes != 6*sheet.DefaultNotesPerStaff {
		t.Errorf("unexpected stats: %+v", res.Stats)
	}
	if res.CacheInfo.PDFHit {
		t.Error("first run cannot hit the cache")
	}
}

func TestExecuteCachesPDF(t *testing.T) {
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	conv := &countingConverter{}
	r := NewRunner(c, nil, quietLogger())
	r.Convert = conv.convert
	defer r.Close()

	opts := Options{Sheet: sheet.Options{Pitches: []pitch.Name{"La4", "Si4"}}}
	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if conv.calls != 1 {
		t.Errorf("converter ran %d times, want 1", conv.calls)
	}
	if !second.CacheInfo.PDFHit {
		t.Error("identical sheet should hit the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatPDF][0], second.Artifacts[FormatPDF][0]) {
		t.Error("cached pdf differs")
	}

	opts.Refresh = true
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if conv.calls != 2 {
		t.Errorf("refresh should bypass the cache, converter ran %d times", conv.calls)
	}
}

func TestExecuteMissingClefFallsBack(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Sheet:    sheet.Options{Pitches: pitch.Names(), StavesPerPage: 1},
		Formats:  []string{FormatSVG},
		ClefPath: filepath.Join(t.TempDir(), "no-such-clef.png"),
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if bytes.Contains(res.Artifacts[FormatSVG][0], []byte("<image")) {
		t.Error("missing clef should draw the plain stroke")
	}
}

func TestExecuteRasterizesVectorClef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clef.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="20"/>`
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}
	var bitmap bytes.Buffer
	if err := png.Encode(&bitmap, image.NewGray(image.Rect(0, 0, 10, 20))); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		formats []string
		calls   int
	}{
		{"png output", []string{FormatPNG}, 1},
		{"svg only", []string{FormatSVG}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			r := NewRunner(nil, nil, quietLogger())
			r.Rasterize = func(_ context.Context, in []byte, scale float64) ([]byte, error) {
				calls++
				if scale != 0.5 {
					t.Errorf("scale = %v, want the png scale", scale)
				}
				return bitmap.Bytes(), nil
			}
			_, err := r.Execute(context.Background(), Options{
				Sheet:    sheet.Options{Pitches: pitch.Names(), StavesPerPage: 1},
				Formats:  tt.formats,
				Scale:    0.5,
				ClefPath: path,
			})
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			if calls != tt.calls {
				t.Errorf("rasterize calls = %d, want %d", calls, tt.calls)
			}
		})
	}
}

func TestExecuteWarnsOffPage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(nil, nil, log.NewWithOptions(&buf, log.Options{}))
	res, err := r.Execute(context.Background(), Options{
		Sheet:   sheet.Options{Pitches: pitch.Names(), StavesPerPage: 6, StaffGap: sheet.MaxStaffGap},
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Stats.OffPage != 4 {
		t.Errorf("OffPage = %d, want 4", res.Stats.OffPage)
	}
	if !strings.Contains(buf.String(), "staves run off the page") {
		t.Errorf("no off-page warning in log:\n%s", buf.String())
	}

	buf.Reset()
	if _, err := r.Execute(context.Background(), Options{
		Sheet:   sheet.Options{Pitches: pitch.Names(), StaffGap: 5 * staff.Centimeter},
		Formats: []string{FormatJSON},
	}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if strings.Contains(buf.String(), "off the page") {
		t.Errorf("default layout warned:\n%s", buf.String())
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Execute(context.Background(), Options{Formats: []string{"svg"}}); err == nil {
		t.Error("Execute without pitches should fail")
	}
}
