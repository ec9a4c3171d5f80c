// SPDX-License-Identifier: MIT
// Package matrix: central validators.
// Every kernel routes its preconditions through this file so that each
// failure mode maps to exactly one sentinel or structured error, and so the
// eager-validation guarantee (no output written after a failed check) has a
// single enforcement point.

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the validator tag.
func validatorErrorf(tag string, err error) error {
	// Provides consistent error tagging for all validation errors.
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
//
// Returns ErrNilMatrix if m == nil (including a typed nil *Dense, which
// still satisfies the interface but would blow up on first use).
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	// If the matrix is nil, fail with the unified sentinel.
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix) // single source of truth for "nil argument"
	}
	// A typed nil *Dense hides behind a non-nil interface value.
	if d, ok := m.(*Dense); ok && d == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	// Otherwise accept.
	return nil
}

// ValidateVecLen ensures x is non-nil and its length matches the required
// column count. A failed length check reports both extents via
// DimensionMismatchError.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, cols int) error {
	// Disallow nil vectors to avoid subtle bugs in MatVec-like routines.
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilVector)
	}
	// Check the exact expected length.
	if len(x) != cols {
		return validatorErrorf("ValidateVecLen", &DimensionMismatchError{Cols: cols, VecLen: len(x)})
	}

	return nil
}

// ValidateOutputLen ensures dst is non-nil and its length matches the
// required row count. A failed length check reports both extents via
// BufferSizeError.
// Time: O(1). Space: O(1).
func ValidateOutputLen(dst []float64, rows int) error {
	if dst == nil {
		return validatorErrorf("ValidateOutputLen", ErrNilVector)
	}
	if len(dst) != rows {
		return validatorErrorf("ValidateOutputLen", &BufferSizeError{Rows: rows, BufLen: len(dst)})
	}

	return nil
}

// ValidateMatVec runs the full precondition set for y = m·x in documented
// priority order: nil matrix, then vector shape against m.Cols().
// Complexity: O(1).
func ValidateMatVec(m Matrix, x []float64) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	return ValidateVecLen(x, m.Cols())
}

// ValidateMatVecInto extends ValidateMatVec with the output-buffer check
// against m.Rows(). All checks complete before any element is written.
// Complexity: O(1).
func ValidateMatVecInto(dst []float64, m Matrix, x []float64) error {
	if err := ValidateMatVec(m, x); err != nil {
		return err
	}

	return ValidateOutputLen(dst, m.Rows())
}
