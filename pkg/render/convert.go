package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Converter is the external tool used by ToPDF and ToPNG.
const Converter = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2 doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// Available reports whether the converter is installed.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	cmd := exec.CommandContext(ctx, Converter, append([]string{"-f", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", Converter, err, stderr.String())
	}
	return out.Bytes(), nil
}
