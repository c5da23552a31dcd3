package pipeline_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

func ExampleParsePasses() {
	passes, err := pipeline.ParsePasses("Random, YifanHu:250, Rescale:40, Sparkle")
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range passes {
		n, hasN := p.Iterations()
		d, hasD := p.Distance()
		fmt.Println(p.Name, p.Known(), n, hasN, d, hasD)
	}
	// Output:
	// Random true 0 false 0 false
	// YifanHu true 250 true 0 false
	// Rescale true 0 false 40 true
	// Sparkle false 0 false 0 false
}

func ExampleRunner_Run() {
	g := graph.New(nil)
	for _, id := range []string{"a", "b", "c"} {
		_ = g.AddNode(graph.Node{ID: id})
	}
	_ = g.AddEdge(graph.Edge{From: "a", To: "b", Weight: 1})
	_ = g.AddEdge(graph.Edge{From: "b", To: "c", Weight: 1})

	runner := pipeline.NewRunner(nil, nil, nil)
	res, err := runner.Run(context.Background(), g, pipeline.Options{
		Passes: "Random,YifanHu:20,Center,Unknown",
		Seed:   7,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range res.Passes {
		fmt.Println(p.Name, p.Skipped)
	}
	fmt.Println(len(res.Positions), res.CacheHit)
	// Output:
	// Random false
	// YifanHu:20 false
	// Center false
	// Unknown true
	// 3 false
}
