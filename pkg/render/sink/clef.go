package sink

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/staffsheet/pkg/errors"
)

// Clef is a treble clef glyph loaded from an image asset.
type Clef struct {
	data []byte
	mime string
	// img is nil for vector assets, which only the SVG sink can embed.
	img image.Image
}

// LoadClef reads a PNG, JPEG or SVG glyph from path.
func LoadClef(path string) (*Clef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "clef image %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read clef image %s", path)
	}
	return NewClef(data, mimeFor(path))
}

// NewClef wraps glyph bytes of the given MIME type.
func NewClef(data []byte, mime string) (*Clef, error) {
	c := &Clef{data: data, mime: mime}
	switch mime {
	case "image/svg+xml":
	case "image/png", "image/jpeg":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode clef image")
		}
		c.img = img
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported clef image type %q", mime)
	}
	return c, nil
}

// DataURI returns the glyph as a base64 data URI.
func (c *Clef) DataURI() string {
	return "data:" + c.mime + ";base64," + base64.StdEncoding.EncodeToString(c.data)
}

// Rasterizer renders an SVG document to PNG bytes at scale.
type Rasterizer func(ctx context.Context, svg []byte, scale float64) ([]byte, error)

// Rasterize gives a vector glyph a bitmap for the PNG sink. The SVG bytes
// are kept, so the SVG sink still embeds the original. Bitmap glyphs are
// left unchanged.
func (c *Clef) Rasterize(ctx context.Context, convert Rasterizer, scale float64) error {
	if c == nil || c.img != nil {
		return nil
	}
	data, err := convert(ctx, c.data, scale)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "rasterize clef image")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode rasterized clef")
	}
	c.img = img
	return nil
}

// Raster reports whether the PNG sink can draw the glyph.
func (c *Clef) Raster() bool { return c != nil && c.img != nil }

func mimeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	}
	return ""
}
