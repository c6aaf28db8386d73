// Copyright 2020 Aleksandr Demakin. All rights reserved.

package ira

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/avdva/mpfloat"
)

// ErrDimension is returned if the sizes of matrices and vectors do not match.
var ErrDimension = errors.New("dimension mismatch")

// Vector is a vector of numbers with the same lengths.
type Vector []*mpfloat.Float

// NewVector returns a vector with given lengths closest to the values.
func NewVector(mantLen, expLen int, values []float64) (Vector, error) {
	result := make(Vector, len(values))
	for i, v := range values {
		f, err := mpfloat.NewFromFloat64(mantLen, expLen, v)
		if err != nil {
			return nil, err
		}
		result[i] = f
	}
	return result, nil
}

// ParseVector returns a vector with given lengths closest to the decimal numbers.
func ParseVector(mantLen, expLen int, values []string) (Vector, error) {
	result := make(Vector, len(values))
	for i, s := range values {
		f, err := mpfloat.NewFromString(mantLen, expLen, s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		result[i] = f
	}
	return result, nil
}

// Cast returns a copy of v with new lengths.
func (v Vector) Cast(mantLen, expLen int) (Vector, error) {
	result := make(Vector, len(v))
	for i, f := range v {
		c, err := f.CastTo(mantLen, expLen)
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

// Float64s returns the values of the elements.
func (v Vector) Float64s() []float64 {
	result := make([]float64, len(v))
	for i, f := range v {
		result[i] = f.Value()
	}
	return result
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Add returns v + other.
func (v Vector) Add(other Vector) (Vector, error) {
	return v.apply(other, (*mpfloat.Float).Add)
}

// Sub returns v - other.
func (v Vector) Sub(other Vector) (Vector, error) {
	return v.apply(other, (*mpfloat.Float).Sub)
}

func (v Vector) apply(other Vector, op func(x, y *mpfloat.Float) (*mpfloat.Float, error)) (Vector, error) {
	if len(v) != len(other) {
		return nil, fmt.Errorf("%w: %d and %d elements", ErrDimension, len(v), len(other))
	}
	result := make(Vector, len(v))
	for i := range v {
		f, err := op(v[i], other[i])
		if err != nil {
			return nil, err
		}
		result[i] = f
	}
	return result, nil
}

// MeanAbs returns the mean absolute value of the elements. It is NaN for an empty vector.
func (v Vector) MeanAbs() float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	sum := v[0].Abs()
	for _, f := range v[1:] {
		var err error
		if sum, err = sum.Add(f.Abs()); err != nil {
			return math.NaN()
		}
	}
	return sum.Value() / float64(len(v))
}

// Within returns true if every element of v differs from the element of other
// by no more than 'tolerance' units in the last place.
func (v Vector) Within(other Vector, tolerance uint64) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if !v[i].CheckPrecision(other[i], tolerance) {
			return false
		}
	}
	return true
}

// Matrix is a square matrix of numbers with the same lengths, stored by rows.
type Matrix struct {
	n    int
	data []*mpfloat.Float
}

// NewMatrix returns a matrix of size n with elements copied from values, row by row.
func NewMatrix(n int, values Vector) (*Matrix, error) {
	if n < 1 || len(values) != n*n {
		return nil, fmt.Errorf("%w: %d elements for a matrix of size %d", ErrDimension, len(values), n)
	}
	m := &Matrix{n: n, data: make([]*mpfloat.Float, len(values))}
	for i, f := range values {
		if !f.SameShape(values[0]) {
			return nil, fmt.Errorf("%w: element %d", mpfloat.ErrPrecisionMismatch, i)
		}
		m.data[i] = f.Copy()
	}
	return m, nil
}

// MatrixFromFloat64 returns a matrix of size n with given lengths closest to the values, row by row.
func MatrixFromFloat64(mantLen, expLen, n int, values []float64) (*Matrix, error) {
	v, err := NewVector(mantLen, expLen, values)
	if err != nil {
		return nil, err
	}
	return NewMatrix(n, v)
}

// Identity returns an identity matrix of size n.
func Identity(mantLen, expLen, n int) (*Matrix, error) {
	values := make([]float64, n*n)
	for i := 0; i < n; i++ {
		values[i*n+i] = 1
	}
	return MatrixFromFloat64(mantLen, expLen, n, values)
}

// Dim returns the size of the matrix.
func (m *Matrix) Dim() int {
	return m.n
}

// At returns the element at the given row and column.
func (m *Matrix) At(row, col int) *mpfloat.Float {
	return m.data[row*m.n+col]
}

func (m *Matrix) set(row, col int, f *mpfloat.Float) {
	m.data[row*m.n+col] = f
}

func (m *Matrix) swapRows(r1, r2, from, to int) {
	for i := from; i < to; i++ {
		m.data[r1*m.n+i], m.data[r2*m.n+i] = m.data[r2*m.n+i], m.data[r1*m.n+i]
	}
}

// Cast returns a copy of m with new lengths.
func (m *Matrix) Cast(mantLen, expLen int) (*Matrix, error) {
	data, err := Vector(m.data).Cast(mantLen, expLen)
	if err != nil {
		return nil, err
	}
	return &Matrix{n: m.n, data: data}, nil
}

// MulVec returns m*x, calculated with the lengths of m and x.
func (m *Matrix) MulVec(x Vector) (Vector, error) {
	if len(x) != m.n {
		return nil, fmt.Errorf("%w: matrix of size %d and %d elements", ErrDimension, m.n, len(x))
	}
	result := make(Vector, m.n)
	for i := 0; i < m.n; i++ {
		sum, err := mpfloat.New(x[0].MantissaLength(), x[0].ExponentLength())
		if err != nil {
			return nil, err
		}
		for j := 0; j < m.n; j++ {
			p, err := m.At(i, j).Mul(x[j])
			if err != nil {
				return nil, err
			}
			if sum, err = sum.Add(p); err != nil {
				return nil, err
			}
		}
		result[i] = sum
	}
	return result, nil
}

func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Vector(m.data[i*m.n : (i+1)*m.n]).String())
	}
	return b.String()
}
