package floor

// Edge is an unordered pair of neighboring nodes. I and J are the positions
// of A and B in the slice the edge was computed from, with I < J; for
// [NodeSet.Edges] that slice is [NodeSet.All]. Equal nodes at different
// positions are told apart by index.
type Edge struct {
	A, B Node
	I, J int
}

// In reports whether e was computed from nodes, that is whether I and J are
// positions in nodes holding A and B.
func (e Edge) In(nodes []Node) bool {
	return e.I >= 0 && e.J >= 0 && e.I != e.J &&
		e.I < len(nodes) && e.J < len(nodes) &&
		nodes[e.I] == e.A && nodes[e.J] == e.B
}

// neighborReach is the largest per-axis mesh distance between neighbors: the
// integer part of sqrt(5).
const neighborReach = 2

// IsNeighbor reports whether a and b are within sqrt(5) of each other on both
// mesh axes independently. The per-axis test is looser than a Euclidean
// radius and admits diagonal pairs up to (2, 2) apart; renderers rely on that
// exact set of lines. Mesh coordinates are integers, so the distances are
// compared directly against [neighborReach] without squaring.
func IsNeighbor(a, b Node) bool {
	return absDiff(a.meshX, b.meshX) <= neighborReach && absDiff(a.meshY, b.meshY) <= neighborReach
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// Neighbors returns every unordered pair of distinct positions in nodes that
// satisfies [IsNeighbor], ordered by the first index then the second. Each
// pair appears once and no position is paired with itself. Duplicate nodes
// at different positions are paired with each other.
//
// The scan is quadratic; layouts hold tens to a few hundred nodes.
func Neighbors(nodes []Node) []Edge {
	var edges []Edge
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if IsNeighbor(nodes[i], nodes[j]) {
				edges = append(edges, Edge{A: nodes[i], B: nodes[j], I: i, J: j})
			}
		}
	}
	return edges
}

// Degrees returns the number of edges touching each node, indexed like nodes.
// Edges not computed from nodes are ignored, see [Edge.In].
func Degrees(nodes []Node, edges []Edge) []int {
	deg := make([]int, len(nodes))
	for _, e := range edges {
		if !e.In(nodes) {
			continue
		}
		deg[e.I]++
		deg[e.J]++
	}
	return deg
}
