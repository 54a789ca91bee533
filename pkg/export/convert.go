package export

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/lasercard/pkg/errors"
	"github.com/matzehuels/lasercard/pkg/observability"
)

// rsvgConvertBin is the converter binary looked up on PATH.
var rsvgConvertBin = "rsvg-convert"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG at the given resolution in dots per inch.
// The card is sized in millimetres, so dpi sets the pixel size.
func ToPNG(ctx context.Context, svg []byte, dpi float64) ([]byte, error) {
	d := fmt.Sprintf("%.2f", dpi)
	return rsvgConvert(ctx, svg, "png", "-d", d, "-p", d)
}

// Available reports whether rsvg-convert can be found on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgConvertBin)
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) (data []byte, err error) {
	start := time.Now()
	defer func() {
		observability.Convert().OnConvert(ctx, rsvgConvertBin, format, time.Since(start), err)
	}()

	if _, err := exec.LookPath(rsvgConvertBin); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgConvertBin, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
