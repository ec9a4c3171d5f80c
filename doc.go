// Package nmag is a micromagnetics toolkit: unit-safe physical
// quantities, material models, event schedules and a restartable
// relax/hysteresis loop, built around a dense matrix-vector kernel.
//
// 🚀 What is nmag-go?
//
//	A simulation scaffold that brings together:
//		• matrix:   dense row-major matrices + a strict MatVec kernel
//		• si:       physical quantities with SI dimensions and unit parsing
//		• when:     a small algebra of saving/doing schedules (at, every, between)
//		• throttle: per-key minimum-interval limiting for progress reporting
//		• infer:    a make-style dependency engine for derived quantities
//		• anis:     predefined uniaxial and cubic anisotropy energies
//		• material: magnetic materials with derived LLG coefficients
//		• sim:      clock, NDT data tables, restartable hysteresis runs
//
// ✨ Why choose nmag-go?
//
//   - Unit-safe physics: every dimensioned parameter is checked at the door
//   - Deterministic kernel: ordered accumulation, no FMA contraction
//   - Structured logging throughout (log/slog), pluggable handlers
//   - Compressed data tables (zstd) and throttled progress files
//
// A minimal relax run, given a physics backend implementing sim.Driver:
//
//	s, err := sim.New("bar37", driver)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	if err := s.Relax(); err != nil {
//		return err
//	}
//
// Hysteresis sweeps take a list of applied fields and save on schedule:
//
//	err = s.Hysteresis(fields, sim.WithSave(sim.Schedule{
//		When:    when.Every("step", 100),
//		Actions: []sim.Action{sim.Do("averages")},
//	}))
//
// Dive into examples/ for a complete toy driver wired through the
// whole stack.
//
//	go get github.com/TriMagnetix/nmag-go
package nmag
