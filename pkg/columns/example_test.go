package columns_test

import (
	"fmt"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/columns"
)

func ExampleGreedy() {
	blocks := []block.Block{
		block.New("cs2150", 540, 600),
		block.New("math3100", 570, 630),
		block.New("phys1425", 600, 660),
	}

	depths := columns.Greedy{}.Assign(blocks)
	n := columns.Apply(blocks, depths)

	fmt.Println("Columns:", n)
	fmt.Println("Depths:", depths)
	// Output:
	// Columns: 2
	// Depths: [0 1 0]
}

func ExampleByName() {
	a, err := columns.ByName("heap")
	if err != nil {
		panic(err)
	}
	blocks := []block.Block{
		block.New("a", 540, 660),
		block.New("b", 540, 660),
		block.New("c", 540, 660),
	}
	fmt.Println(a.Assign(blocks))
	// Output: [0 1 2]
}
