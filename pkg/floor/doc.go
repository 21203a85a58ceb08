// Package floor models a haptic floor: a grid of actuator nodes laid out on a
// brick (offset-row) grid and described by an untrusted JSON layout.
//
// # Overview
//
// The package turns layout text into an immutable [NodeSet] and provides the
// two computations consumers need from it:
//
//   - [Neighbors] derives the mesh topology drawn by renderers
//   - [Route] maps a per-tick bank of actuator values onto the active nodes
//
// Layout text is parsed by [Parse] into [RawNode] descriptors, which [Build]
// converts into [Node] values. Each node carries its original brick
// coordinates and the Cartesian mesh coordinates computed by [ToMesh] at
// construction time; nodes are never mutated afterwards.
//
// # Layout Format
//
// The layout is a JSON array of objects:
//
//	[
//	  {"coords": [0, 0], "type": "active", "channel": 2},
//	  {"coords": [1, 1]}
//	]
//
// "coords" is required and must hold exactly two integers. A "type" of exactly
// "active" makes the node drivable; anything else, or no type at all, makes it
// passive. "channel" is honored on active nodes only and defaults to 0.
// Unknown fields are ignored.
//
// Validation is all-or-nothing: the first malformed element rejects the whole
// document.
//
// # Reloading
//
// [Floor] owns the current node set for a running host. [Floor.Reload]
// replaces it atomically and resets it to empty on any failure, discarding the
// previously loaded layout as well:
//
//	f := floor.New(floor.WithResizeFunc(func(n int) { bank.Resize(n) }))
//	if err := f.Reload(ctx, text); err != nil {
//	    logger.Warn("layout rejected", "err", err) // f is now empty
//	}
//	out := f.Tick(ctx, bank.Values())
//
// # Concurrency
//
// The free functions are pure. [Floor] is safe for concurrent use: reloads
// hold the write lock for the whole clear-and-repopulate step, so a tick
// never observes a partially loaded set.
package floor
