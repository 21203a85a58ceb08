package floor

import "slices"

// NodeSet holds the classified nodes of one layout. Both sequences keep the
// order in which nodes appeared in the layout array, and each node is in
// exactly one of them.
//
// A NodeSet is immutable: accessors return copies, and a reload replaces the
// whole set.
type NodeSet struct {
	active  []Node
	passive []Node
}

// Build classifies descriptors and constructs their nodes.
func Build(raw []RawNode) NodeSet {
	var s NodeSet
	for _, r := range raw {
		n := FromRaw(r)
		if n.IsActive() {
			s.active = append(s.active, n)
		} else {
			s.passive = append(s.passive, n)
		}
	}
	return s
}

// Load parses layout text and builds its node set.
// On error the returned set is empty.
func Load(text string) (NodeSet, error) {
	raw, err := Parse(text)
	if err != nil {
		return NodeSet{}, err
	}
	return Build(raw), nil
}

// NewNodeSet builds a set from already constructed nodes, partitioning them
// by their active flag.
func NewNodeSet(nodes ...Node) NodeSet {
	var s NodeSet
	for _, n := range nodes {
		if n.IsActive() {
			s.active = append(s.active, n)
		} else {
			s.passive = append(s.passive, n)
		}
	}
	return s
}

// Active returns the active nodes in layout order. Routed tick output is
// indexed the same way.
func (s NodeSet) Active() []Node { return slices.Clone(s.active) }

// Passive returns the passive nodes in layout order.
func (s NodeSet) Passive() []Node { return slices.Clone(s.passive) }

// All returns active nodes followed by passive nodes.
func (s NodeSet) All() []Node {
	out := make([]Node, 0, len(s.active)+len(s.passive))
	out = append(out, s.active...)
	return append(out, s.passive...)
}

func (s NodeSet) ActiveCount() int  { return len(s.active) }
func (s NodeSet) PassiveCount() int { return len(s.passive) }
func (s NodeSet) Len() int          { return len(s.active) + len(s.passive) }
func (s NodeSet) IsEmpty() bool     { return s.Len() == 0 }

// Edges returns the neighbor pairs across the whole set, see [Neighbors].
func (s NodeSet) Edges() []Edge { return Neighbors(s.All()) }

// Channels returns the channel of each active node in routing order.
func (s NodeSet) Channels() []int {
	out := make([]int, len(s.active))
	for i, n := range s.active {
		out[i] = n.Channel()
	}
	return out
}

// Bounds returns the inclusive mesh bounding box of the set.
// ok is false for an empty set.
func (s NodeSet) Bounds() (minX, minY, maxX, maxY int, ok bool) {
	all := s.All()
	if len(all) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = all[0].MeshX(), all[0].MeshY()
	maxX, maxY = minX, minY
	for _, n := range all[1:] {
		minX = min(minX, n.MeshX())
		minY = min(minY, n.MeshY())
		maxX = max(maxX, n.MeshX())
		maxY = max(maxY, n.MeshY())
	}
	return minX, minY, maxX, maxY, true
}
