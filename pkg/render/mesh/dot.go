package mesh

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hapticfloor/pkg/floor"
)

// Engines that honor pinned positions.
const (
	EngineNeato = "neato"
	EngineFDP   = "fdp"
)

// Options configures mesh diagram rendering. Zero fields take defaults.
type Options struct {
	// Scale is the number of points per mesh unit.
	Scale float64
	// ActiveSize and PassiveSize are node diameters in inches.
	ActiveSize  float64
	PassiveSize float64
	// Engine is the Graphviz layout engine, neato or fdp.
	Engine string
	// HideLabels drops the channel labels on active nodes.
	HideLabels bool
}

// WithDefaults returns o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 40
	}
	if o.ActiveSize <= 0 {
		o.ActiveSize = 0.35
	}
	if o.PassiveSize <= 0 {
		o.PassiveSize = 0.08
	}
	if o.Engine == "" {
		o.Engine = EngineNeato
	}
	return o
}

// Validate rejects options the renderer cannot use.
func (o Options) Validate() error {
	switch o.Engine {
	case "", EngineNeato, EngineFDP:
	default:
		return fmt.Errorf("unsupported engine %q (want neato or fdp)", o.Engine)
	}
	if o.Scale < 0 || o.ActiveSize < 0 || o.PassiveSize < 0 {
		return fmt.Errorf("sizes must not be negative")
	}
	return nil
}

// ToDOT converts a node set and its edges to an undirected DOT graph with
// pinned positions. edges are expected from set.Edges(); edges computed from
// another set are skipped.
func ToDOT(set floor.NodeSet, edges []floor.Edge, opts Options) string {
	opts = opts.WithDefaults()

	var buf bytes.Buffer
	buf.WriteString("graph floor {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=10, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#9aa0a6\"];\n")
	buf.WriteString("\n")

	_, _, _, maxY, _ := set.Bounds()
	all := set.All()
	ids := make([]string, 0, len(all))

	for i, n := range set.Active() {
		id := fmt.Sprintf("a%d", i)
		ids = append(ids, id)
		label := ""
		if !opts.HideLabels {
			label = strconv.Itoa(n.Channel())
		}
		fmt.Fprintf(&buf, "  %q [pos=%q, shape=circle, style=filled, fillcolor=\"#e8590c\", fontcolor=white, width=%.2f, label=%q];\n",
			id, pos(n, maxY, opts.Scale), opts.ActiveSize, label)
	}
	for i, n := range set.Passive() {
		id := fmt.Sprintf("p%d", i)
		ids = append(ids, id)
		fmt.Fprintf(&buf, "  %q [pos=%q, shape=point, color=\"#495057\", width=%.2f];\n",
			id, pos(n, maxY, opts.Scale), opts.PassiveSize)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if !e.In(all) {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", ids[e.I], ids[e.J])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pos(n floor.Node, maxY int, scale float64) string {
	x := float64(n.MeshX()) * scale
	y := float64(maxY-n.MeshY()) * scale
	return fmt.Sprintf("%s,%s!", strconv.FormatFloat(x, 'f', -1, 64), strconv.FormatFloat(y, 'f', -1, 64))
}

// RenderSVG lays out dot with the engine in opts and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(opts.Engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg tag with one that scales cleanly
// when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
