package force

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// Model supplies the force laws of one layout algorithm.
type Model interface {
	// Mass is the model's base mass of node i. Forces multiplies it by the
	// node's own mass before handing bodies to the repulsion law.
	Mass(s *System, i int) float64
	// Repulsion is the pairwise law handed to the spatial index.
	Repulsion(self, other spatial.Body, delta geom.Vector, dist float64) geom.Vector
	// Attraction returns the force on the spring source. delta points from
	// source to target and has length dist > 0. The target receives the
	// opposite force.
	Attraction(s *System, sp Spring, delta geom.Vector, dist float64) geom.Vector
	// Gravity returns the pull on node i towards the layout centre.
	Gravity(s *System, i int) geom.Vector
}

// parallelThreshold is the node count below which Forces stays on the
// calling goroutine.
const parallelThreshold = 256

// Forces returns the net force on every node. It rebuilds idx from the
// current snapshot, fans repulsion and gravity out over workers goroutines,
// then adds spring forces. It does not modify the system or the graph.
func Forces(ctx context.Context, s *System, m Model, idx spatial.Index, workers int) ([]geom.Vector, error) {
	n := s.Len()
	idx.Build(s.Bodies(func(i int) float64 { return m.Mass(s, i) * s.Nodes[i].EffectiveMass() }))

	forces := make([]geom.Vector, n)
	err := ParallelFor(ctx, n, workers, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			forces[i] = idx.ForceOn(i, m.Repulsion).Add(m.Gravity(s, i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, sp := range s.Springs {
		if sp.Source == sp.Target || sp.Weight == 0 {
			continue
		}
		delta := s.Pos[sp.Target].Sub(s.Pos[sp.Source])
		dist := delta.Norm()
		if dist < spatial.MinDistance {
			continue
		}
		f := m.Attraction(s, sp, delta, dist)
		if !f.Finite() {
			continue
		}
		forces[sp.Source] = forces[sp.Source].Add(f)
		forces[sp.Target] = forces[sp.Target].Sub(f)
	}

	for i, f := range forces {
		if !f.Finite() {
			forces[i] = geom.Vector{}
		}
	}
	return forces, nil
}

// ParallelFor splits [0, n) into contiguous chunks and runs fn on each chunk
// concurrently. workers <= 0 means GOMAXPROCS. Small inputs run inline.
// The first error cancels the remaining chunks and is returned.
func ParallelFor(ctx context.Context, n, workers int, fn func(lo, hi int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n < parallelThreshold || workers == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, n)
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
