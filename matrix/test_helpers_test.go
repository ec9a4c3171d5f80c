// SPDX-License-Identifier: MIT
// Package matrix_test contains shared test helpers.
//
// Purpose:
//   - Provide small, deterministic fixtures and assertions for the kernel
//     tests and benchmarks.
//   - Keep all data finite and well-formed unless a case targets NaN/Inf
//     propagation explicitly.

package matrix_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/TriMagnetix/nmag-go/matrix"
)

// hide wraps any Matrix to mask its concrete type from type assertions.
// Use hide{X} in tests to force the interface (non-*Dense) kernel path.
type hide struct{ matrix.Matrix }

// failAfter is a Matrix whose At starts failing after a fixed number of
// successful reads. It exercises mid-flight failure on the fallback path.
type failAfter struct {
	matrix.Matrix
	calls *int // shared counter across At invocations
	limit int  // reads allowed before failure
}

// errAtExhausted marks the synthetic At failure injected by failAfter.
var errAtExhausted = errors.New("synthetic At failure")

func (f failAfter) At(i, j int) (float64, error) {
	if *f.calls >= f.limit {
		return 0, errAtExhausted
	}
	*f.calls++

	return f.Matrix.At(i, j)
}

// MustDense allocates an r×c *Dense or aborts the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// MustFromRows builds a *Dense from a row literal or aborts the test.
func MustFromRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		t.Fatalf("NewDenseFromRows: %v", err)
	}

	return m
}

// MustSet writes m[i,j] = v or aborts the test.
func MustSet(t *testing.T, m matrix.Matrix, i, j int, v float64) {
	t.Helper()
	if err := m.Set(i, j, v); err != nil {
		t.Fatalf("Set(%d,%d,%v): %v", i, j, v, err)
	}
}

// MustAt reads m[i,j] or aborts the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// RandomFill populates m with deterministic values in [-1, 1).
func RandomFill(t *testing.T, m matrix.Matrix, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	r, c := m.Rows(), m.Cols()
	var (
		i, j int
		err  error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if err = m.Set(i, j, rng.Float64()*2-1); err != nil {
				t.Fatalf("Set(%d,%d): %v", i, j, err)
			}
		}
	}
}

// randomVec returns a deterministic vector with values in [-1, 1).
func randomVec(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64()*2 - 1
	}

	return x
}

// naiveMatVec is the reference oracle: same traversal order as the kernel,
// written against the plain interface so it shares no code with it.
func naiveMatVec(t *testing.T, m matrix.Matrix, x []float64) []float64 {
	t.Helper()
	y := make([]float64, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		var acc float64
		for j := 0; j < m.Cols(); j++ {
			acc += float64(MustAt(t, m, i, j) * x[j])
		}
		y[i] = acc
	}

	return y
}

// CompareExact asserts strict equality between a 2D literal and a matrix.
func CompareExact(t *testing.T, want [][]float64, m matrix.Matrix) {
	t.Helper()
	r, c := m.Rows(), m.Cols()
	if len(want) != r {
		t.Fatalf("CompareExact: Rows = %d; want %d", r, len(want))
	}
	var i, j int
	for i = 0; i < r; i++ {
		if len(want[i]) != c {
			t.Fatalf("CompareExact: Cols[%d] = %d; want %d", i, c, len(want[i]))
		}
		for j = 0; j < c; j++ {
			if got := MustAt(t, m, i, j); got != want[i][j] {
				t.Fatalf("m[%d,%d] = %.17g; want %.17g", i, j, got, want[i][j])
			}
		}
	}
}

// AssertErrorIs asserts errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("want %v; got %v", target, err)
	}
}

// ---- benchmark-side helpers (testing.B so they stay out of test flow) ----

// mustDense allocates an r×c *Dense or aborts the benchmark.
func mustDense(b *testing.B, r, c int) *matrix.Dense {
	b.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		b.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// fillDenseRand populates d with deterministic values in [-1, 1).
func fillDenseRand(b *testing.B, d *matrix.Dense, seed int64) {
	b.Helper()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < d.Rows(); i++ {
		for j := 0; j < d.Cols(); j++ {
			if err := d.Set(i, j, rng.Float64()*2-1); err != nil {
				b.Fatalf("Set(%d,%d): %v", i, j, err)
			}
		}
	}
}

// onesVec returns an all-ones vector of length n.
func onesVec(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = 1
	}

	return x
}
