package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/matzehuels/staffsheet/pkg/errors"
)

const rsvgBinary = "rsvg-convert"

const installHint = "Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin"

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// ToPDF converts SVG pages to one PDF, a page per input, in order.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, pages ...[]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no pages to convert")
	}
	if len(pages) == 1 {
		return rsvgConvert(ctx, pages[0], "pdf")
	}

	// rsvg-convert only reads several documents from files.
	dir, err := os.MkdirTemp("", "staffsheet-pdf-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	files := make([]string, len(pages))
	for i, svg := range pages {
		files[i] = filepath.Join(dir, fmt.Sprintf("page-%03d.svg", i+1))
		if err := os.WriteFile(files[i], svg, 0o644); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}
	}
	return rsvgConvert(ctx, nil, "pdf", files...)
}

// ToPNG converts an SVG page to PNG with rsvg-convert at the given scale.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert. stdin is used when files is empty.
func rsvgConvert(ctx context.Context, stdin []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s export requires librsvg. %s", format, installHint)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}
