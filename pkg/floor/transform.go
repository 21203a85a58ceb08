package floor

// ToMesh maps brick grid coordinates onto the integer Cartesian mesh.
//
// Brick rows alternate a half-cell offset, so every coordinate is doubled and
// even rows are shifted right by one mesh unit:
//
//	even y: (1 + 2x, 2y)
//	odd  y: (2x,     2y)
//
// After the transform, true neighbors lie within sqrt(5) of each other: two
// units apart on the same row, or one unit across and two down on the next.
func ToMesh(gridX, gridY int) (meshX, meshY int) {
	if gridY%2 == 0 {
		return 1 + 2*gridX, 2 * gridY
	}
	return 2 * gridX, 2 * gridY
}
