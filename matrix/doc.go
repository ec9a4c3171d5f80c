// Package matrix provides the dense linear-algebra primitives used by the
// simulation layers: a row-major float64 Matrix with a small mutable
// interface, and a deterministic matrix-by-vector multiply kernel.
//
// The matrix package provides:
//
//   - Dense, a flat row-major implementation of the Matrix interface with
//     O(1) element access and cheap row views.
//   - MatVec / MatVecInto, the y = A·x kernel with strict fail-fast
//     validation, an allocation-free variant writing into a caller buffer,
//     and bit-reproducible accumulation (fixed left-to-right order, no FMA
//     contraction, no term skipping).
//   - Central validators mapping every precondition to a sentinel or a
//     structured error before any output element is written.
//
// The kernel is stateless and reentrant: concurrent calls over shared
// read-only inputs and distinct output buffers are safe without locking.
//
// See the examples in this package for usage patterns.
package matrix
