package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/hapticfloor/pkg/floor"
	pkgio "github.com/matzehuels/hapticfloor/pkg/io"
	"github.com/matzehuels/hapticfloor/pkg/render"
	"github.com/matzehuels/hapticfloor/pkg/render/mesh"
)

// Render produces the requested formats for snap without caching.
// SVG is rendered at most once and reused for PNG and PDF.
func Render(ctx context.Context, snap floor.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	edges := snap.Nodes.Edges()
	mopts := opts.MeshOptions()
	dot := mesh.ToDOT(snap.Nodes, edges, mopts)

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = mesh.RenderSVG(ctx, dot, mopts)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.PNGZoom)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatJSON:
			// Artifacts are cached by layout content and carry no revision.
			var buf bytes.Buffer
			err = pkgio.WriteMesh(&buf, floor.Snapshot{Nodes: snap.Nodes, State: snap.State}, edges)
			data = buf.Bytes()
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
