package sink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/staffsheet/pkg/pitch"
	"github.com/matzehuels/staffsheet/pkg/sheet"
)

func testDoc(t *testing.T, opts sheet.Options) *sheet.Document {
	t.Helper()
	if opts.Pitches == nil {
		opts.Pitches = pitch.Names()
	}
	doc, err := sheet.Plan(context.Background(), opts)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	return doc
}

// solidPNG returns an encoded w×h PNG filled with c.
func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestNewClef(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		mime    string
		raster  bool
		wantErr bool
	}{
		{"png", solidPNG(t, 4, 4, color.Black), "image/png", true, false},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), "image/svg+xml", false, false},
		{"corrupt png", []byte("not a png"), "image/png", false, true},
		{"unknown type", []byte("GIF89a"), "image/gif", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClef(tt.data, tt.mime)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClef error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if c.Raster() != tt.raster {
				t.Errorf("Raster() = %v, want %v", c.Raster(), tt.raster)
			}
		})
	}
}

func TestLoadClefMissing(t *testing.T) {
	if _, err := LoadClef(t.TempDir() + "/missing.png"); err == nil {
		t.Error("LoadClef on a missing file should fail")
	}
}

func TestNilClefIsNotRaster(t *testing.T) {
	var c *Clef
	if c.Raster() {
		t.Error("nil clef reported as raster")
	}
}

func TestClefRasterize(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"/>`)
	bitmap := solidPNG(t, 4, 8, color.Black)

	t.Run("vector gains bitmap", func(t *testing.T) {
		c, err := NewClef(svg, "image/svg+xml")
		if err != nil {
			t.Fatalf("NewClef error: %v", err)
		}
		var gotScale float64
		err = c.Rasterize(context.Background(), func(_ context.Context, in []byte, scale float64) ([]byte, error) {
			if !bytes.Equal(in, svg) {
				t.Errorf("rasterizer got %q", in)
			}
			gotScale = scale
			return bitmap, nil
		}, 3)
		if err != nil {
			t.Fatalf("Rasterize error: %v", err)
		}
		if !c.Raster() {
			t.Error("clef should be raster after Rasterize")
		}
		if gotScale != 3 {
			t.Errorf("scale = %v, want 3", gotScale)
		}
		if b := c.img.Bounds(); b.Dx() != 4 || b.Dy() != 8 {
			t.Errorf("bitmap bounds = %v", b)
		}
		if uri := c.DataURI(); !bytes.HasPrefix([]byte(uri), []byte("data:image/svg+xml;")) {
			t.Errorf("DataURI = %q, want the vector original", uri[:30])
		}
	})

	t.Run("bitmap untouched", func(t *testing.T) {
		c, err := NewClef(bitmap, "image/png")
		if err != nil {
			t.Fatalf("NewClef error: %v", err)
		}
		called := false
		if err := c.Rasterize(context.Background(), func(context.Context, []byte, float64) ([]byte, error) {
			called = true
			return nil, nil
		}, 1); err != nil {
			t.Fatalf("Rasterize error: %v", err)
		}
		if called {
			t.Error("rasterizer called for a bitmap clef")
		}
	})

	t.Run("undecodable output", func(t *testing.T) {
		c, err := NewClef(svg, "image/svg+xml")
		if err != nil {
			t.Fatalf("NewClef error: %v", err)
		}
		err = c.Rasterize(context.Background(), func(context.Context, []byte, float64) ([]byte, error) {
			return []byte("not a png"), nil
		}, 1)
		if err == nil {
			t.Fatal("Rasterize should fail on undecodable output")
		}
		if c.Raster() {
			t.Error("failed Rasterize left a bitmap")
		}
	})
}
