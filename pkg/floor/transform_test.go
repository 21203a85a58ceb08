package floor

import "testing"

func TestToMesh(t *testing.T) {
	tests := []struct {
		x, y   int
		mx, my int
	}{
		{0, 0, 1, 0},
		{1, 0, 3, 0},
		{0, 1, 0, 2},
		{1, 1, 2, 2},
		{3, 2, 7, 4},
		{3, 3, 6, 6},
		{-1, 0, -1, 0},
		{-2, -1, -4, -2},
		{5, -2, 11, -4},
	}

	for _, tt := range tests {
		mx, my := ToMesh(tt.x, tt.y)
		if mx != tt.mx || my != tt.my {
			t.Errorf("ToMesh(%d, %d) = (%d, %d), want (%d, %d)", tt.x, tt.y, mx, my, tt.mx, tt.my)
		}
	}
}

func TestToMeshDeterministic(t *testing.T) {
	for y := -3; y <= 3; y++ {
		for x := -3; x <= 3; x++ {
			ax, ay := ToMesh(x, y)
			bx, by := ToMesh(x, y)
			if ax != bx || ay != by {
				t.Fatalf("ToMesh(%d, %d) not deterministic: (%d,%d) vs (%d,%d)", x, y, ax, ay, bx, by)
			}
		}
	}
}

func TestNewNodeDerivesMesh(t *testing.T) {
	n := NewActiveNode(2, 1, 5)
	if n.MeshX() != 4 || n.MeshY() != 2 {
		t.Errorf("mesh = (%d,%d), want (4,2)", n.MeshX(), n.MeshY())
	}
	if n.GridX() != 2 || n.GridY() != 1 {
		t.Errorf("grid = (%d,%d), want (2,1)", n.GridX(), n.GridY())
	}
	if n.Channel() != 5 || !n.IsActive() {
		t.Errorf("node = %v, want active channel 5", n)
	}

	p := NewNode(0, 0, 9, false)
	if p.Channel() != 0 {
		t.Errorf("passive Channel() = %d, want 0", p.Channel())
	}
}

func TestNodeString(t *testing.T) {
	if got := NewActiveNode(0, 0, 2).String(); got != "active(0,0)->(1,0)#2" {
		t.Errorf("String() = %q", got)
	}
	if got := NewPassiveNode(1, 1).String(); got != "passive(1,1)->(2,2)" {
		t.Errorf("String() = %q", got)
	}
}
