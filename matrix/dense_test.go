// SPDX-License-Identifier: MIT
package matrix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TriMagnetix/nmag-go/matrix"
)

func TestNewDense_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rows    int
		cols    int
		wantErr error
	}{
		{name: "square", rows: 3, cols: 3},
		{name: "rectangular", rows: 2, cols: 5},
		{name: "zero_rows", rows: 0, cols: 4},
		{name: "zero_cols", rows: 4, cols: 0},
		{name: "zero_both", rows: 0, cols: 0},
		{name: "negative_rows", rows: -1, cols: 3, wantErr: matrix.ErrInvalidDimensions},
		{name: "negative_cols", rows: 3, cols: -2, wantErr: matrix.ErrInvalidDimensions},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, err := matrix.NewDense(tc.rows, tc.cols)
			if tc.wantErr != nil {
				require.Nil(t, m)
				require.Truef(t, errors.Is(err, tc.wantErr), "got %v, want %v", err, tc.wantErr)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.rows, m.Rows())
			require.Equal(t, tc.cols, m.Cols())
		})
	}
}

func TestNewDense_ZeroInitialized(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 3, 4)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			require.Zero(t, MustAt(t, m, i, j))
		}
	}
}

func TestNewDenseFromRows(t *testing.T) {
	t.Parallel()

	t.Run("literal", func(t *testing.T) {
		t.Parallel()
		m := MustFromRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
		require.Equal(t, 3, m.Rows())
		require.Equal(t, 2, m.Cols())
		CompareExact(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, m)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		m := MustFromRows(t, nil)
		require.Equal(t, 0, m.Rows())
		require.Equal(t, 0, m.Cols())
	})

	t.Run("zero_cols", func(t *testing.T) {
		t.Parallel()
		m := MustFromRows(t, [][]float64{{}, {}, {}})
		require.Equal(t, 3, m.Rows())
		require.Equal(t, 0, m.Cols())
	})

	t.Run("ragged", func(t *testing.T) {
		t.Parallel()
		_, err := matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
		AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
		require.Contains(t, err.Error(), "row 1")
	})

	t.Run("copies_input", func(t *testing.T) {
		t.Parallel()
		src := [][]float64{{1, 2}}
		m := MustFromRows(t, src)
		src[0][0] = 99
		require.Equal(t, 1.0, MustAt(t, m, 0, 0))
	})
}

func TestDense_AtSet_Bounds(t *testing.T) {
	t.Parallel()
	m := MustDense(t, 2, 3)

	MustSet(t, m, 1, 2, 7.5)
	require.Equal(t, 7.5, MustAt(t, m, 1, 2))

	tests := []struct {
		name string
		i, j int
	}{
		{name: "row_negative", i: -1, j: 0},
		{name: "row_high", i: 2, j: 0},
		{name: "col_negative", i: 0, j: -1},
		{name: "col_high", i: 0, j: 3},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := m.At(tc.i, tc.j)
			AssertErrorIs(t, err, matrix.ErrIndexOutOfBounds)
			err = m.Set(tc.i, tc.j, 1)
			AssertErrorIs(t, err, matrix.ErrIndexOutOfBounds)
		})
	}
}

func TestDense_Row_View(t *testing.T) {
	t.Parallel()
	m := MustFromRows(t, [][]float64{{1, 2}, {3, 4}})

	row, err := m.Row(1)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4}, row)

	// The view shares storage: a write through it is visible in the matrix.
	row[0] = 30
	require.Equal(t, 30.0, MustAt(t, m, 1, 0))

	// A matrix write is visible through the view.
	MustSet(t, m, 1, 1, 40)
	require.Equal(t, 40.0, row[1])

	// The view is capped: growing it cannot touch the backing storage.
	grown := append(row, 99)
	require.Equal(t, 40.0, MustAt(t, m, 1, 1))
	require.Len(t, grown, 3)

	_, err = m.Row(2)
	AssertErrorIs(t, err, matrix.ErrIndexOutOfBounds)
	_, err = m.Row(-1)
	AssertErrorIs(t, err, matrix.ErrIndexOutOfBounds)
}

func TestDense_Clone_Independent(t *testing.T) {
	t.Parallel()
	m := MustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	c := m.Clone()

	MustSet(t, m, 0, 0, 100)
	require.Equal(t, 1.0, MustAt(t, c, 0, 0))

	MustSet(t, c, 1, 1, -4)
	require.Equal(t, 4.0, MustAt(t, m, 1, 1))
}

func TestDense_String(t *testing.T) {
	t.Parallel()
	m := MustFromRows(t, [][]float64{{1, 2.5}, {-3, 0}})
	require.Equal(t, "[1, 2.5]\n[-3, 0]\n", m.String())
}
