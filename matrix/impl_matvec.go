// SPDX-License-Identifier: MIT
// Package matrix: the matrix-by-vector multiply kernel.
//
// Purpose:
//   - Declare the canonical y = A·x kernels (allocating and in-place) with
//     strict fail-fast validation and reproducible accumulation.
//
// Notes:
//   - All preconditions run through the central validators (validators.go)
//     before any output element is written.
//   - Both kernels share one accumulation core so the numeric contract
//     (fixed left-to-right order, per-term rounding, no skipping) cannot
//     drift between entry points.

package matrix

import "fmt"

// ZeroSum is the initial accumulator value for row dot-products.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMatVec     = "MatVec"
	opMatVecInto = "MatVecInto"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m·x and returns a freshly allocated result of length
// m.Rows(). The input operands are never mutated.
//
// Implementation:
//   - Stage 1: ValidateMatVec (nil matrix, nil vector, len(x) vs Cols).
//   - Stage 2: Allocate the result vector (exactly Rows elements).
//   - Stage 3: Run the shared accumulation core (fast path for *Dense,
//     interface fallback otherwise).
//
// Behavior highlights:
//   - Row i accumulates m[i][0]*x[0] + m[i][1]*x[1] + ... strictly in that
//     order; no reordering, no zero-skipping, no FMA contraction. Repeated
//     calls over identical inputs are bit-identical, on every architecture.
//   - NaN and ±Inf inputs flow through IEEE-754 arithmetic; they are values,
//     not errors.
//   - Rows()==0 yields an empty slice; Cols()==0 yields all zeros.
//
// Errors:
//   - ErrNilMatrix / ErrNilVector       (validation).
//   - DimensionMismatchError            (len(x) != m.Cols(); wraps
//     ErrDimensionMismatch and names both extents).
//   - wrapped At errors                 (interface fallback only).
//
// Complexity:
//   - Time O(rows*cols), Space O(rows) for the result.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	// Validate everything up front; nothing is allocated on failure.
	if err := ValidateMatVec(m, x); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	// Prepare result vector y with length rows.
	y := make([]float64, m.Rows()) // allocate exactly rows outputs

	if err := matVecCore(y, m, x); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	return y, nil
}

// MatVecInto computes y = m·x into the caller-supplied buffer dst and
// returns dst itself (same backing storage, same identity). It performs no
// allocation on the *Dense path, making it suitable for tight loops that
// reuse one output buffer across many multiplies. dst must not alias x.
//
// Implementation:
//   - Stage 1: ValidateMatVecInto (everything MatVec checks, plus dst
//     non-nil and len(dst) == m.Rows()).
//   - Stage 2: for a *Dense operand, accumulate straight into dst.
//     For other operands, accumulate into a scratch vector and copy on
//     success, so a failing At can never leave dst half-written.
//
// Behavior highlights:
//   - On any error dst is untouched: validation failures return before the
//     first write, and the fallback path commits only a complete result.
//   - Every dst element is stored, including the all-zero Cols()==0 case;
//     stale prior contents never survive a successful call.
//
// Errors:
//   - ErrNilMatrix / ErrNilVector       (validation).
//   - DimensionMismatchError            (len(x) != m.Cols()).
//   - BufferSizeError                   (len(dst) != m.Rows(); wraps
//     ErrBufferSizeMismatch and names both extents).
//   - wrapped At errors                 (interface fallback only).
//
// Complexity:
//   - Time O(rows*cols); Space O(1) for *Dense, O(rows) scratch otherwise.
func MatVecInto(dst []float64, m Matrix, x []float64) ([]float64, error) {
	// Validate everything up front; dst is untouched on failure.
	if err := ValidateMatVecInto(dst, m, x); err != nil {
		return nil, matrixErrorf(opMatVecInto, err)
	}

	// Fast path writes into dst directly; it cannot fail past validation.
	if _, ok := m.(*Dense); ok {
		if err := matVecCore(dst, m, x); err != nil {
			return nil, matrixErrorf(opMatVecInto, err)
		}

		return dst, nil
	}

	// Interface fallback: At may fail mid-flight, so accumulate into a
	// scratch vector and commit only a complete result.
	scratch := make([]float64, len(dst))
	if err := matVecCore(scratch, m, x); err != nil {
		return nil, matrixErrorf(opMatVecInto, err)
	}
	copy(dst, scratch)

	return dst, nil
}

// matVecCore accumulates y = m·x assuming validated extents:
// len(y) == m.Rows() and len(x) == m.Cols().
//
// Fast path: *Dense exposes flat row-major storage, so each row is sliced
// once and indexed inside the proven-safe window; no per-element shape or
// nil re-checks. Fallback: element access through the At interface with the
// same traversal order.
//
// The product in the inner loop is converted to float64 before accumulation.
// The conversion forces the product to round separately, which bars the
// compiler from fusing multiply and add into an FMA; without it, sums could
// differ between architectures.
func matVecCore(y []float64, m Matrix, x []float64) error {
	// Fast-path: *Dense allows flat, row-major dot-products.
	if d, ok := m.(*Dense); ok {
		var i, j, base int // indices and row base offset
		var acc float64
		var row []float64
		for i = 0; i < d.r; i++ { // iterate rows deterministically
			acc = ZeroSum                     // reset accumulator per row
			base = i * d.c                    // compute flat base offset for row i
			row = d.data[base : base+d.c]     // one bounds-checked slice per row
			for j = 0; j < len(row); j++ {    // iterate columns left to right
				acc += float64(row[j] * x[j]) // accumulate a(i,j)*x(j), rounded per term
			}
			y[i] = acc // store y(i)
		}

		return nil // fast-path complete
	}

	// Fallback: interface-based dot-products via At.
	rows, cols := m.Rows(), m.Cols()
	var i, j int   // loop indices
	var acc float64
	var mv float64 // temporary to hold m(i,j)
	var err error
	for i = 0; i < rows; i++ { // iterate rows
		acc = ZeroSum              // initialize the row accumulator
		for j = 0; j < cols; j++ { // iterate columns
			mv, err = m.At(i, j) // read m(i,j)
			if err != nil {
				return fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			acc += float64(mv * x[j]) // accumulate, rounded per term
		}
		y[i] = acc // store y(i)
	}

	return nil // fallback complete
}
