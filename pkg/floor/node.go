package floor

import "fmt"

// TypeActive is the layout "type" value that marks a node as drivable.
// The comparison is exact and case-sensitive.
const TypeActive = "active"

// RawNode is a validated layout element before classification.
type RawNode struct {
	X, Y    int
	Type    *string // nil when absent or not a string
	Channel *int    // nil when absent or not an integer
}

// IsActive reports whether the descriptor's type is exactly [TypeActive].
func (r RawNode) IsActive() bool {
	return r.Type != nil && *r.Type == TypeActive
}

// EffectiveChannel returns the channel an active node is bound to.
// Passive nodes and active nodes without an integer channel get 0.
func (r RawNode) EffectiveChannel() int {
	if !r.IsActive() || r.Channel == nil {
		return 0
	}
	return *r.Channel
}

// Node is an immutable floor node. The zero value is a passive node at grid
// (0, 0) with zero mesh coordinates and is not meaningful; use [NewNode].
type Node struct {
	gridX, gridY int
	meshX, meshY int
	channel      int
	active       bool
}

// NewNode builds a node from brick coordinates, deriving its mesh position
// with [ToMesh]. The channel of a passive node is always 0.
func NewNode(gridX, gridY, channel int, active bool) Node {
	if !active {
		channel = 0
	}
	mx, my := ToMesh(gridX, gridY)
	return Node{
		gridX:   gridX,
		gridY:   gridY,
		meshX:   mx,
		meshY:   my,
		channel: channel,
		active:  active,
	}
}

// NewActiveNode builds an active node bound to channel.
func NewActiveNode(gridX, gridY, channel int) Node {
	return NewNode(gridX, gridY, channel, true)
}

// NewPassiveNode builds a passive node.
func NewPassiveNode(gridX, gridY int) Node {
	return NewNode(gridX, gridY, 0, false)
}

// FromRaw classifies a parsed descriptor and builds its node.
func FromRaw(r RawNode) Node {
	return NewNode(r.X, r.Y, r.EffectiveChannel(), r.IsActive())
}

func (n Node) GridX() int     { return n.gridX }
func (n Node) GridY() int     { return n.gridY }
func (n Node) MeshX() int     { return n.meshX }
func (n Node) MeshY() int     { return n.meshY }
func (n Node) Channel() int   { return n.channel }
func (n Node) IsActive() bool { return n.active }

// String formats the node as kind(grid)->(mesh), with the channel for
// active nodes, e.g. "active(0,0)->(1,0)#2".
func (n Node) String() string {
	if n.active {
		return fmt.Sprintf("active(%d,%d)->(%d,%d)#%d", n.gridX, n.gridY, n.meshX, n.meshY, n.channel)
	}
	return fmt.Sprintf("passive(%d,%d)->(%d,%d)", n.gridX, n.gridY, n.meshX, n.meshY)
}
