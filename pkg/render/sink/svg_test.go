package sink

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/matzehuels/staffsheet/pkg/pitch"
	"github.com/matzehuels/staffsheet/pkg/sheet"
)

func TestRenderSVGOnePerPage(t *testing.T) {
	doc := testDoc(t, sheet.Options{Pages: 3, StavesPerPage: 2})
	pages := RenderSVG(doc)
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, p := range pages {
		if !bytes.HasPrefix(p, []byte("<svg")) {
			t.Errorf("page %d does not start with <svg", i+1)
		}
		if n := bytes.Count(p, []byte(`class="staff"`)); n != 2 {
			t.Errorf("page %d has %d staves, want 2", i+1, n)
		}
	}
	if !bytes.Contains(pages[2], []byte(`id="page-3"`)) {
		t.Error("third page is not labelled page-3")
	}
}

func TestRenderSVGFallbackClef(t *testing.T) {
	doc := testDoc(t, sheet.Options{StavesPerPage: 1, Pitches: []pitch.Name{"La4"}, NotesPerStaff: 3})
	svg := RenderPageSVG(doc.Pages[0], doc.PageSize)

	if bytes.Contains(svg, []byte("<image")) {
		t.Error("fallback page should not embed an image")
	}
	// Five staff lines, the barline and the fallback stroke; La4 needs no
	// ledger lines.
	if n := bytes.Count(svg, []byte("<line ")); n != 7 {
		t.Errorf("got %d lines, want 7", n)
	}
}

func TestRenderSVGEmbedsClef(t *testing.T) {
	clef, err := NewClef(solidPNG(t, 8, 8, color.Black), "image/png")
	if err != nil {
		t.Fatalf("NewClef error: %v", err)
	}
	doc := testDoc(t, sheet.Options{StavesPerPage: 4})
	svg := RenderPageSVG(doc.Pages[0], doc.PageSize, WithClef(clef))

	if n := bytes.Count(svg, []byte(`<image class="clef"`)); n != 4 {
		t.Errorf("got %d clef images, want 4", n)
	}
	if !bytes.Contains(svg, []byte(`xlink:href="data:image/png;base64,`)) {
		t.Error("clef is not embedded as a data URI")
	}
}

func TestRenderSVGHeadFill(t *testing.T) {
	doc := testDoc(t, sheet.Options{StavesPerPage: 1, Pitches: []pitch.Name{"Mi4", "Fa4", "Sol5"}, NotesPerStaff: 3})
	svg := string(RenderPageSVG(doc.Pages[0], doc.PageSize))

	want := map[string]string{
		"Mi4":  `fill="none"`,  // bottom line
		"Fa4":  `fill="white"`, // space
		"Sol5": `fill="white"`, // space above the staff
	}
	for _, line := range strings.Split(svg, "\n") {
		for name, fill := range want {
			if strings.Contains(line, `data-pitch="`+name+`"`) {
				if !strings.Contains(line, fill) {
					t.Errorf("%s head: %s, want %s", name, strings.TrimSpace(line), fill)
				}
				delete(want, name)
			}
		}
	}
	for name := range want {
		t.Errorf("no head drawn for %s", name)
	}
}

func TestRenderSVGFlipsY(t *testing.T) {
	doc := testDoc(t, sheet.Options{StavesPerPage: 1, Pitches: []pitch.Name{"Mi4"}, NotesPerStaff: 1})
	svg := RenderPageSVG(doc.Pages[0], doc.PageSize)

	// The first baseline sits 3 cm below the top edge.
	if !bytes.Contains(svg, []byte(`cy="85.04"`)) {
		t.Errorf("Mi4 head not drawn 3 cm from the top:\n%s", svg)
	}
}

func TestRenderSVGLedgerLinesBeforeHeads(t *testing.T) {
	doc := testDoc(t, sheet.Options{StavesPerPage: 1, Pitches: []pitch.Name{"Do4"}, NotesPerStaff: 1})
	svg := RenderPageSVG(doc.Pages[0], doc.PageSize, WithStrokeWidth(0.5))

	head := bytes.Index(svg, []byte("<circle"))
	lines := bytes.LastIndex(svg, []byte("<line "))
	if head < 0 || lines < 0 || lines > head {
		t.Error("ledger line should precede the note head")
	}
	if !bytes.Contains(svg, []byte(`stroke-width="0.50"`)) {
		t.Error("stroke width option ignored")
	}
}
