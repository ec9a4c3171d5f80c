// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines the package-level sentinel errors and the structured
// error types used across the matrix package. All kernels MUST return these
// sentinels (possibly via the structured types) and tests MUST check them
// via errors.Is / errors.As. No kernel panics on user-triggered conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. DO NOT %w wrap these sentinels when returning
// directly; if context is essential, wrap with fmt.Errorf("ctx: %w", ErrX)
// at the outer boundary, so callers can still use errors.Is to match.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil matrix -> nil vector -> dimension mismatch -> output buffer mismatch.
// Validation is eager: no output element is written once any check fails.

var (
	// ErrInvalidDimensions is returned when a requested shape is negative.
	// Zero rows or zero columns are legal (degenerate but well-defined).
	ErrInvalidDimensions = errors.New("matrix: negative dimension")

	// ErrIndexOutOfBounds indicates that an index (row or column) is outside
	// valid bounds. Public indexers (At/Set/Row) MUST return this, not panic.
	ErrIndexOutOfBounds = errors.New("matrix: index out of bounds")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrNilVector indicates that a nil input or output vector was supplied
	// where a (possibly empty) slice is required.
	ErrNilVector = errors.New("matrix: nil vector")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. MatVec where len(x) != m.Cols(). The structured
	// DimensionMismatchError wraps this sentinel and carries both numbers.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrBufferSizeMismatch indicates a caller-supplied output buffer whose
	// length differs from the required m.Rows(). The structured
	// BufferSizeError wraps this sentinel and carries both numbers.
	ErrBufferSizeMismatch = errors.New("matrix: output buffer size mismatch")
)

// DimensionMismatchError reports an input vector whose length does not match
// the operand's column count. It unwraps to ErrDimensionMismatch so coarse
// errors.Is checks keep working; errors.As exposes the numbers.
type DimensionMismatchError struct {
	Cols   int // column count of the matrix operand
	VecLen int // length of the supplied vector
}

// Error formats the mismatch with both extents, as required for diagnosis
// without re-probing the operands.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("matrix: dimension mismatch: matrix has %d column(s), vector has length %d", e.Cols, e.VecLen)
}

// Unwrap anchors the structured error to the ErrDimensionMismatch sentinel.
func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// BufferSizeError reports a caller-supplied output buffer whose length does
// not match the operand's row count. It unwraps to ErrBufferSizeMismatch.
type BufferSizeError struct {
	Rows   int // row count of the matrix operand
	BufLen int // length of the supplied output buffer
}

// Error formats the mismatch with both extents.
func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("matrix: output buffer size mismatch: matrix has %d row(s), buffer has length %d", e.Rows, e.BufLen)
}

// Unwrap anchors the structured error to the ErrBufferSizeMismatch sentinel.
func (e *BufferSizeError) Unwrap() error { return ErrBufferSizeMismatch }
