package floor_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/hapticfloor/pkg/floor"
)

func ExampleToMesh() {
	fmt.Println(floor.ToMesh(0, 0))
	fmt.Println(floor.ToMesh(1, 1))
	// Output:
	// 1 0
	// 2 2
}

func ExampleRoute() {
	fmt.Println(floor.Route(3, []float64{0.1, 0.2, 0.3}))
	fmt.Println(floor.Route(2, []float64{0.1, 0.2, 0.3}))
	fmt.Println(floor.Route(3, nil))
	// Output:
	// [0.1 0.2 0.3]
	// [0.3 0.2]
	// [0 0 0]
}

func ExampleFloor_Reload() {
	f := floor.New()
	ctx := context.Background()

	_ = f.Reload(ctx, `[{"coords":[0,0],"type":"active","channel":2},{"coords":[1,1]}]`)
	fmt.Println(f.State(), f.ActiveCount(), len(f.Edges()))

	err := f.Reload(ctx, `[{"coords":[0,0]},{"coords":"x"}]`)
	fmt.Println(f.State(), f.ActiveCount(), err != nil)
	// Output:
	// loaded 1 1
	// empty 0 true
}
