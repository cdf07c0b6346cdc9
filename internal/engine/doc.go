// Package engine ties the cube together: one Engine owns a lattice, a turn
// machine and the global orientation, and turns each frame request into a
// painted surface.
//
// # Example
//
//	eng, err := engine.New(config.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer eng.Close()
//	for range ticker.C {
//		if err := eng.AdvanceAndRender(surface); err != nil {
//			return err
//		}
//	}
//
// # Thread Safety
//
// Frame methods and Close are serialised by the Engine. Cooldown timers may
// fire on another goroutine; they only touch the turn machine, which has its
// own lock.
package engine
