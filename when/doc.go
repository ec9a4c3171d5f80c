// Package when implements a small combinator language for scheduling
// actions against named simulation counters ("step", "time", "stage").
//
// 🚀 What is a time specification?
//
//	A When value answers two questions about a Time snapshot (a map of
//	counter names to numbers or flags): does it fire right now (Match),
//	and when does it fire next for a given counter (Next). Schedulers
//	use Next to jump straight to the next interesting point instead of
//	polling every step.
//
// ✨ Key features:
//   - at('step', 10): a single point, or a flag such as at('convergence')
//   - every('step', 5, first=10, last=100): periodic with optional bounds
//   - between('stage_time', 0, 1e-9): a bare range without a period
//   - Or / And combinators with exact next-event computation
//   - Never, and the zero When, match nothing
//   - NextTol applies a tolerance so float jitter cannot re-trigger an
//     event that effectively already fired
//
// ⚙️ Usage:
//
//	w := when.Every("step", 100).Or(when.At("convergence", when.Flag(true)))
//	if w.Match(now) { save() }
//	nxt := w.Next("step", now) // never | always | event at t
//
// When values are immutable; combinators return new values.
package when
