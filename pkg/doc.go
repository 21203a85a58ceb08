// Package pkg provides the libraries behind hapticfloor.
//
// # Overview
//
// A haptic floor is a grid of tiles. Active tiles carry an actuator wired to
// an output channel; passive tiles only fill out the mesh. Hosts load a layout
// document describing the tiles, derive the triangular mesh they form, and on
// every tick route a bank of actuator values onto the active tiles.
//
// # Architecture
//
//	layout JSON
//	     ↓
//	[floor] parse, mesh transform, node set, reload state
//	     ↓
//	[floor] adjacency + routing        →  [server] HTTP host surface
//	     ↓
//	[pipeline] render + cache          →  [render/mesh] Graphviz SVG/DOT
//	     ↓                                [render] PNG/PDF conversion
//	[io] mesh JSON export
//
// # Quick Start
//
//	f := floor.New()
//	if err := f.Reload(ctx, layoutText); err != nil {
//	    // the floor is empty now; err carries a code such as INVALID_ELEMENT
//	}
//	out := f.Tick(ctx, bank) // len(out) == f.ActiveCount()
//
// # Packages
//
// [floor] - Layout parsing, grid to mesh coordinates, node sets partitioned
// into active and passive nodes, neighbor pairs and value routing. [floor.Floor]
// serializes reloads against ticks.
//
// [pipeline] - Load and render shared by the CLI and the server, with
// artifacts cached by layout content and render options.
//
// [render/mesh] - DOT generation with pinned node positions and rendering
// through Graphviz.
//
// [cache] - File, Redis and no-op caches behind one interface.
//
// [config] - TOML configuration with validation.
//
// [server] - HTTP surface around one shared floor.
//
// [metrics] - Prometheus collectors installed as [observability] hooks.
//
// [errors] - Coded errors for layout rejection and request validation.
//
// [floor]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/floor
// [floor.Floor]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/floor#Floor
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/pipeline
// [render/mesh]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/render/mesh
// [render]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/server
// [metrics]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/hapticfloor/pkg/errors
package pkg
