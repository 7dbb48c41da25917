package sink

import (
	"encoding/json"

	"github.com/matzehuels/staffsheet/pkg/pitch"
	"github.com/matzehuels/staffsheet/pkg/sequence"
	"github.com/matzehuels/staffsheet/pkg/sheet"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
}

// WithJSONCompact drops indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	ID        string        `json:"id"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Mode      sequence.Mode `json:"mode"`
	Seed      uint64        `json:"seed,omitempty"`
	Pitches   []pitch.Name  `json:"pitches"`
	Notes     int           `json:"notes"`
	Truncated int           `json:"truncated_staves,omitempty"`
	Pages     []sheet.Page  `json:"pages"`
}

// RenderJSON exports the document geometry. Coordinates are page points with
// Y growing upwards, exactly as planned.
func RenderJSON(doc *sheet.Document, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ID:        doc.ID,
		Width:     doc.PageSize.Width,
		Height:    doc.PageSize.Height,
		Mode:      doc.Options.Mode,
		Seed:      doc.Options.Seed,
		Pitches:   doc.Options.Pitches,
		Notes:     doc.NoteCount(),
		Truncated: doc.Truncated(),
		Pages:     doc.Pages,
	}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
