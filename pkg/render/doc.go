// Package render converts rendered floor diagrams between output formats.
//
// The [mesh] subpackage draws a node set and its neighbor edges as an SVG
// through Graphviz. [ToPDF] and [ToPNG] turn that SVG into other formats by
// shelling out to rsvg-convert (librsvg):
//
//	svg, err := mesh.RenderSVG(ctx, mesh.ToDOT(set, edges, opts), opts)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
