package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/hapticfloor/pkg/floor"
)

// Mesh is the JSON form of a floor snapshot.
type Mesh struct {
	State    string     `json:"state"`
	Revision string     `json:"revision,omitempty"`
	Active   []MeshNode `json:"active"`
	Passive  []MeshNode `json:"passive"`
	Edges    []MeshEdge `json:"edges"`
}

// MeshNode is one exported node.
type MeshNode struct {
	ID      string `json:"id"`
	Grid    [2]int `json:"grid"`
	Mesh    [2]int `json:"mesh"`
	Channel *int   `json:"channel,omitempty"`
	Degree  int    `json:"degree"`
}

// MeshEdge joins two node ids.
type MeshEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewMesh builds the export of snap with the given edges, which must come
// from snap.Nodes.Edges(). Edges computed from another set are dropped.
func NewMesh(snap floor.Snapshot, edges []floor.Edge) Mesh {
	all := snap.Nodes.All()
	degrees := floor.Degrees(all, edges)
	nActive := snap.Nodes.ActiveCount()

	out := Mesh{
		State:    snap.State.String(),
		Revision: snap.Revision,
		Active:   make([]MeshNode, 0, nActive),
		Passive:  make([]MeshNode, 0, len(all)-nActive),
		Edges:    make([]MeshEdge, 0, len(edges)),
	}

	ids := make([]string, len(all))
	for i, n := range all {
		mn := MeshNode{
			Grid:   [2]int{n.GridX(), n.GridY()},
			Mesh:   [2]int{n.MeshX(), n.MeshY()},
			Degree: degrees[i],
		}
		if n.IsActive() {
			ch := n.Channel()
			mn.ID = fmt.Sprintf("a%d", i)
			mn.Channel = &ch
			out.Active = append(out.Active, mn)
		} else {
			mn.ID = fmt.Sprintf("p%d", i-nActive)
			out.Passive = append(out.Passive, mn)
		}
		ids[i] = mn.ID
	}

	for _, e := range edges {
		if e.In(all) {
			out.Edges = append(out.Edges, MeshEdge{From: ids[e.I], To: ids[e.J]})
		}
	}
	return out
}

// WriteMesh encodes the export of snap as indented JSON to w.
func WriteMesh(w io.Writer, snap floor.Snapshot, edges []floor.Edge) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewMesh(snap, edges)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

type layoutElement struct {
	Coords  [2]int `json:"coords"`
	Type    string `json:"type,omitempty"`
	Channel *int   `json:"channel,omitempty"`
}

// WriteLayout writes set as a layout document, active nodes first.
func WriteLayout(w io.Writer, set floor.NodeSet) error {
	elems := make([]layoutElement, 0, set.Len())
	for _, n := range set.All() {
		el := layoutElement{Coords: [2]int{n.GridX(), n.GridY()}}
		if n.IsActive() {
			ch := n.Channel()
			el.Type = floor.TypeActive
			el.Channel = &ch
		}
		elems = append(elems, el)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(elems); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
