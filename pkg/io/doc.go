// Package io reads layout documents and writes floor exports.
//
// # Layouts
//
// [ReadLayout] and [ImportLayout] return layout text, capped at
// [errors.MaxLayoutBytes], ready for [floor.Floor.Reload]. [WriteLayout]
// writes a node set back out as a canonical layout document that parses to
// the same set.
//
// # Mesh export
//
// [WriteMesh] serializes a snapshot and its neighbor edges:
//
//	{
//	  "state": "loaded",
//	  "revision": "3f0c...",
//	  "active": [{"id": "a0", "grid": [0, 0], "mesh": [1, 0], "channel": 2, "degree": 1}],
//	  "passive": [{"id": "p0", "grid": [1, 1], "mesh": [2, 2], "degree": 1}],
//	  "edges": [{"from": "a0", "to": "p0"}]
//	}
//
// Node ids are "a<i>" for the i-th active node and "p<i>" for the i-th
// passive node, matching the ids used in the DOT output of render/mesh.
package io
