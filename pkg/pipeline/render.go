package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/framegrid/pkg/errors"
	"github.com/matzehuels/framegrid/pkg/observability"
	"github.com/matzehuels/framegrid/pkg/render"
	"github.com/matzehuels/framegrid/pkg/render/dot"
	"github.com/matzehuels/framegrid/pkg/render/svg"
	"github.com/matzehuels/framegrid/pkg/render/text"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// Render draws snap in every format of opts.Formats.
func Render(ctx context.Context, snap snapshot.Snapshot, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svgData []byte
	vector := func() []byte {
		if svgData == nil {
			svgData = svg.Render(snap, svgOptions(opts)...)
		}
		return svgData
	}

	var err error
	for _, format := range opts.Formats {
		var data []byte
		data, err = renderFormat(ctx, snap, format, opts, vector)
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			break
		}
		artifacts[format] = data
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, snap snapshot.Snapshot, format string, opts Options, vector func() []byte) ([]byte, error) {
	switch format {
	case FormatSVG:
		return vector(), nil
	case FormatPNG, FormatPDF:
		if !render.Available() {
			return nil, errors.New(errors.ErrCodeUnsupported, "%s output requires %s", format, render.Converter)
		}
		if format == FormatPNG {
			return render.ToPNG(ctx, vector(), float64(opts.Scale))
		}
		return render.ToPDF(ctx, vector())
	case FormatText:
		return []byte(text.Render(snap, text.Options{Color: opts.Color}) + "\n"), nil
	case FormatDOT:
		return []byte(dot.ToDOT(snap, dot.Options{Detailed: opts.Detailed})), nil
	case FormatTree:
		return dot.RenderSVG(ctx, dot.ToDOT(snap, dot.Options{Detailed: opts.Detailed}))
	case FormatJSON:
		return snapshot.Marshal(snap)
	default:
		return nil, ValidateFormat(format)
	}
}

func svgOptions(opts Options) []svg.Option {
	if opts.Labels {
		return []svg.Option{svg.WithLabels()}
	}
	return nil
}
