// Package infer implements a small make-style inference engine: named
// entities with dependencies, build steps, and an up-to-date bit.
//
// 🚀 What does it do?
//
//	Simulation state forms a dependency graph ("the effective field
//	depends on the magnetisation; the energy depends on the field").
//	An Engine tracks which entities are current. Make builds a target
//	depth-first, running build steps only for entities that are stale;
//	Invalidate marks an entity and everything downstream of it stale.
//
// ✨ Key features:
//   - construction validates the graph: unknown dependencies, duplicate
//     names and circular chains are rejected up front
//   - Make is idempotent; a second call on a current target does nothing
//   - AlsoUpdates lets one build step satisfy sibling entities for free
//   - build steps are plain func() error closures; the first failure
//     aborts the build and leaves the target stale
//
// ⚙️ Usage:
//
//	eng, err := infer.New([]infer.Entity{
//		{Name: "m"},
//		{Name: "H_eff", DependsOn: []string{"m"}, HowToMake: steps},
//	})
//	eng.SetUpToDate("m", true)
//	err = eng.Make("H_eff")
//
// An Engine is not safe for concurrent use.
package infer
