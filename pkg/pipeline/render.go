package pipeline

import (
	"context"

	"github.com/matzehuels/lasercard/pkg/drawing"
	"github.com/matzehuels/lasercard/pkg/errors"
	"github.com/matzehuels/lasercard/pkg/export"
)

// Render generates output artifacts in the requested formats from an
// assembled result. The SVG is rendered once and shared by the formats
// converted from it.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if res.Document == nil {
		return nil, errors.New(errors.ErrCodeInternal, "render: no document assembled")
	}

	var svgOpts []drawing.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, drawing.WithTitle(opts.Title))
	}
	svg := drawing.RenderSVG(res.Document, svgOpts...)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg
		case FormatPDF:
			data, err = export.ToPDF(ctx, svg)
		case FormatPNG:
			data, err = export.ToPNG(ctx, svg, opts.PNGDPI)
		case FormatDXF:
			var skipped int
			data, skipped, err = export.DXF(res.Document)
			if skipped > 0 {
				r.Logger.Warn("dxf export skipped logo paths, only lines, arcs and circles are converted", "paths", skipped)
			}
		case FormatJSON:
			data, err = res.Layout.MarshalIndent()
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeIO, err, "render %s", format)
			}
			return nil, err
		}
		artifacts[format] = data
		r.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}
