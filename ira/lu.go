// Copyright 2020 Aleksandr Demakin. All rights reserved.

package ira

import (
	"errors"
	"fmt"
)

// ErrSingular is returned if a matrix cannot be factorized.
var ErrSingular = errors.New("singular matrix")

// LU is a factorization PA = LU with partial pivoting, where L has a unit diagonal.
type LU struct {
	n    int
	l, u *Matrix
	// perm[i] is the row of A, which became the i-th row.
	perm []int
}

// Factor factorizes a with given lengths. a is not modified.
func Factor(a *Matrix, mantLen, expLen int) (*LU, error) {
	u, err := a.Cast(mantLen, expLen)
	if err != nil {
		return nil, err
	}
	l, err := Identity(mantLen, expLen, a.n)
	if err != nil {
		return nil, err
	}
	lu := &LU{n: a.n, l: l, u: u, perm: make([]int, a.n)}
	for i := range lu.perm {
		lu.perm[i] = i
	}
	for k := 0; k < lu.n; k++ {
		p, err := lu.pivot(k)
		if err != nil {
			return nil, err
		}
		if u.At(p, k).IsZero() {
			return nil, fmt.Errorf("%w: zero pivot in column %d", ErrSingular, k)
		}
		if p != k {
			u.swapRows(k, p, k, lu.n)
			l.swapRows(k, p, 0, k)
			lu.perm[k], lu.perm[p] = lu.perm[p], lu.perm[k]
		}
		for j := k + 1; j < lu.n; j++ {
			factor, err := u.At(j, k).Quo(u.At(k, k))
			if err != nil {
				return nil, err
			}
			l.set(j, k, factor)
			for i := k; i < lu.n; i++ {
				d, err := factor.Mul(u.At(k, i))
				if err != nil {
					return nil, err
				}
				if d, err = u.At(j, i).Sub(d); err != nil {
					return nil, err
				}
				u.set(j, i, d)
			}
		}
	}
	return lu, nil
}

// pivot returns the row with the largest absolute value in column k, starting from row k.
func (lu *LU) pivot(k int) (int, error) {
	row, largest := k, lu.u.At(k, k).Abs()
	for i := k + 1; i < lu.n; i++ {
		v := lu.u.At(i, k).Abs()
		gt, err := v.Gt(largest)
		if err != nil {
			return 0, err
		}
		if gt {
			row, largest = i, v
		}
	}
	return row, nil
}

// Solve returns x, such that Ax = b. b is cast to the lengths of the factorization.
func (lu *LU) Solve(b Vector) (Vector, error) {
	if len(b) != lu.n {
		return nil, fmt.Errorf("%w: matrix of size %d and %d elements", ErrDimension, lu.n, len(b))
	}
	first := lu.u.At(0, 0)
	pb := make(Vector, lu.n)
	for i, row := range lu.perm {
		f, err := b[row].CastTo(first.MantissaLength(), first.ExponentLength())
		if err != nil {
			return nil, err
		}
		pb[i] = f
	}
	y, err := lu.forward(pb)
	if err != nil {
		return nil, err
	}
	return lu.backward(y)
}

// forward solves Ly = b.
func (lu *LU) forward(b Vector) (Vector, error) {
	y := make(Vector, lu.n)
	for i := 0; i < lu.n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			p, err := lu.l.At(i, j).Mul(y[j])
			if err != nil {
				return nil, err
			}
			if sum, err = sum.Sub(p); err != nil {
				return nil, err
			}
		}
		y[i] = sum
	}
	return y, nil
}

// backward solves Ux = y.
func (lu *LU) backward(y Vector) (Vector, error) {
	x := make(Vector, lu.n)
	for i := lu.n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < lu.n; j++ {
			p, err := lu.u.At(i, j).Mul(x[j])
			if err != nil {
				return nil, err
			}
			if sum, err = sum.Sub(p); err != nil {
				return nil, err
			}
		}
		v, err := sum.Quo(lu.u.At(i, i))
		if err != nil {
			return nil, err
		}
		x[i] = v
	}
	return x, nil
}

// L returns the lower triangular matrix.
func (lu *LU) L() *Matrix {
	return lu.l
}

// U returns the upper triangular matrix. Elements below the diagonal are not used.
func (lu *LU) U() *Matrix {
	return lu.u
}

// Perm returns the row permutation: i-th row of LU is the Perm()[i]-th row of A.
func (lu *LU) Perm() []int {
	return append([]int(nil), lu.perm...)
}

