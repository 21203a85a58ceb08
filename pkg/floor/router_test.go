package floor

import (
	"slices"
	"testing"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name  string
		count int
		bank  []float64
		want  []float64
	}{
		{"exact fit", 3, []float64{0.1, 0.2, 0.3}, []float64{0.1, 0.2, 0.3}},
		{"wraps and overwrites", 2, []float64{0.1, 0.2, 0.3}, []float64{0.3, 0.2}},
		{"empty bank", 3, []float64{}, []float64{0, 0, 0}},
		{"nil bank", 2, nil, []float64{0, 0}},
		{"short bank zero fills", 4, []float64{-1, 1}, []float64{-1, 1, 0, 0}},
		{"two full laps", 2, []float64{1, 2, 3, 4}, []float64{3, 4}},
		{"single channel keeps last", 1, []float64{0.5, -0.5, 0.25}, []float64{0.25}},
		{"no active nodes", 0, []float64{0.1, 0.2}, []float64{}},
		{"negative count", -1, []float64{0.1}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.count, tt.bank)
			if got == nil {
				t.Fatal("Route() returned nil")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Route(%d, %v) = %v, want %v", tt.count, tt.bank, got, tt.want)
			}
		})
	}
}

func TestRouteDoesNotModifyBank(t *testing.T) {
	bank := []float64{0.1, 0.2, 0.3}
	out := Route(3, bank)
	out[0] = 9
	if bank[0] != 0.1 {
		t.Errorf("bank[0] = %v after writing output, want 0.1", bank[0])
	}
}

func TestRouteByChannel(t *testing.T) {
	active := []Node{
		NewActiveNode(0, 0, 4),
		NewActiveNode(1, 0, 7),
		NewActiveNode(2, 0, 4),
	}
	got := RouteByChannel(active, []float64{0.1, 0.2, 0.3})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[4] != 0.3 {
		t.Errorf("channel 4 = %v, want 0.3 (later node wins)", got[4])
	}
	if got[7] != 0.2 {
		t.Errorf("channel 7 = %v, want 0.2", got[7])
	}

	short := RouteByChannel(active, []float64{0.5})
	if len(short) != 1 || short[4] != 0.5 {
		t.Errorf("RouteByChannel(short) = %v, want map[4:0.5]", short)
	}
}
