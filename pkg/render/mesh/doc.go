// Package mesh draws a floor's node set as a Graphviz diagram.
//
// Nodes are pinned at their mesh coordinates (scaled by [Options.Scale], with
// row zero at the top) so the picture matches the physical floor rather than
// whatever a layout engine would choose. Active nodes are filled circles
// labelled with their channel; passive nodes are small points. Each neighbor
// pair becomes one undirected line.
//
//	dot := mesh.ToDOT(set, set.Edges(), mesh.Options{})
//	svg, err := mesh.RenderSVG(ctx, dot, mesh.Options{})
//
// PNG and PDF output converts the SVG with the parent render package.
package mesh
