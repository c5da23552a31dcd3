package layout_test

import (
	"fmt"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/layout"
)

func Example() {
	g := graph.New(nil)
	_ = g.AddNode(graph.Node{ID: "a", X: 0, Y: 0})
	_ = g.AddNode(graph.Node{ID: "b", X: 2, Y: 0})
	_ = g.AddNode(graph.Node{ID: "c", X: 4, Y: 6})
	_ = g.AddEdge(graph.Edge{From: "a", To: "b", Weight: 1})

	for _, alg := range []layout.Algorithm{
		layout.NewCenter(g),
		layout.NewRescale(g, layout.RescaleParams{MinEdgeLength: 10}),
	} {
		if err := alg.InitAlgo(); err != nil {
			fmt.Println(err)
			return
		}
		for alg.CanAlgo() {
			if err := alg.GoAlgo(); err != nil {
				fmt.Println(err)
				return
			}
		}
		alg.EndAlgo()
	}

	for _, n := range g.Nodes() {
		fmt.Printf("%s (%.0f, %.0f)\n", n.ID, n.X, n.Y)
	}
	// Output:
	// a (-10, -10)
	// b (0, -10)
	// c (10, 20)
}

func ExampleNewOpenOrd() {
	g := graph.New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(graph.Node{ID: id})
	}
	_ = g.AddEdge(graph.Edge{From: "a", To: "b", Weight: 1})
	_ = g.AddEdge(graph.Edge{From: "b", To: "c", Weight: 1})

	alg := layout.NewOpenOrd(g, layout.OpenOrdParams{LiquidStage: 1, ExpansionStage: 1, CooldownStage: 1, CrunchStage: 1, SimmerStage: 1},
		layout.WithObserver(func(s layout.Step) { fmt.Println(s.Iteration, s.Stage) }))
	if err := alg.InitAlgo(); err != nil {
		fmt.Println(err)
		return
	}
	for alg.CanAlgo() {
		_ = alg.GoAlgo()
	}
	alg.EndAlgo()
	fmt.Println(alg.State())
	// Output:
	// 1 liquid
	// 2 expansion
	// 3 cooldown
	// 4 crunch
	// 5 simmer
	// ended
}
