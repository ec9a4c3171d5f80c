package anis

import (
	"fmt"
	"math"
)

// Vector is a direction in 3-space.
type Vector [3]float64

// Normalize returns the unit vector pointing along v.
// Returns ErrZeroAxis for the zero vector.
func Normalize(v Vector) (Vector, error) {
	n := math.Sqrt(dot(v, v))
	if n == 0 {
		return Vector{}, fmt.Errorf("cannot normalize %v: %w", v, ErrZeroAxis)
	}

	return Vector{v[0] / n, v[1] / n, v[2] / n}, nil
}

func dot(a, b Vector) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b Vector) Vector {
	return Vector{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
