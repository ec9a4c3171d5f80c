// Package sim provides the simulation scaffolding around a physics
// backend: the clock, the observable schema, the NDT data writer, run
// configuration and the relax/hysteresis stage loop.
//
// 🚀 How does a run work?
//
//	A Simulation owns a Clock and a DataWriter and drives a
//	user-supplied Driver (the actual timestepper). Hysteresis walks a
//	list of applied fields; every field value is one stage, integrated
//	until the driver reports convergence. Schedules built from the when
//	package decide on which steps and times data is saved.
//
// ✨ Key features:
//   - Clock tracks step/stage/time counters and formats itself as a
//     boxed pipe table for progress reports
//   - DataWriter emits a tab-separated .ndt table with a commented
//     units header, per-material column expansion and optional zstd
//     compression
//   - startup honours the Clean (move old data files aside) and
//     Restart (resume from the restart snapshot) feature switches
//   - save/do actions are named abbreviations; schedules combine with
//     the when DSL (Every, At, Or)
//
// ⚙️ Usage:
//
//	s, err := sim.New("bar_relax", driver)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	err = s.Hysteresis(fields,
//		sim.WithSave(sim.Schedule{
//			When:    when.Every("step", 100),
//			Actions: []sim.Action{sim.Do("averages")},
//		}),
//	)
//
// A Simulation is not safe for concurrent use; the DataWriter is.
package sim
