// Package layout implements the layout passes and the simulation driver
// they share.
//
// Every pass is an [Algorithm] driven through the same state machine:
//
//	if err := alg.InitAlgo(); err != nil {
//		return err
//	}
//	for alg.CanAlgo() {
//		if err := alg.GoAlgo(); err != nil {
//			return err
//		}
//	}
//	alg.EndAlgo()
//
// InitAlgo validates the graph and parameters and resets the run. GoAlgo
// performs exactly one iteration and fails with INVALID_STATE once CanAlgo
// is false. EndAlgo is always legal and idempotent.
//
// # Passes
//
//   - [Random] scatters free nodes uniformly in a square, seeded.
//   - [Center] moves the centroid to the origin.
//   - [Rescale] scales the layout so the shortest edge has a given length.
//   - [ForceAtlas] runs the ForceAtlas force model with inertia.
//   - [YifanHu] runs the Yifan Hu spring-electrical model with an adaptive step.
//   - [OpenOrd] runs the staged liquid, expansion, cooldown, crunch and simmer schedule.
//
// Force passes compute repulsion through a [spatial.Index] (Barnes-Hut by
// default, see [WithIndex]) and spread the work over goroutines
// ([WithWorkers]). All positions are read from one snapshot per iteration
// and written back together, so results do not depend on the worker count.
//
// [Degenerate] detects collapsed layouts; the pipeline reseeds them.
package layout
