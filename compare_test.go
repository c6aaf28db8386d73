// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	a := assert.New(t)
	r := rand.New(rand.NewSource(5))
	inf := math.Inf(1)
	values := []float64{0, math.Copysign(0, -1), 1, -1, 0.5, 3, -3, inf, -inf, math.NaN(), 0x1p-1074, -0x1p-1074}
	for i := 0; i < 100; i++ {
		values = append(values, randFloat64(r, -1080, 1024), randFloat64(r, -3, 3))
	}
	values = append(values, values[len(values)-1])
	for _, x := range values {
		for _, y := range values {
			fx, fy := MustFromFloat64(52, 11, x), MustFromFloat64(52, 11, y)
			msg := fmt.Sprintf("%v, %v", x, y)
			eq, err := fx.Eq(fy)
			require.NoError(t, err)
			a.Equal(x == y, eq, msg)
			ne, err := fx.Ne(fy)
			require.NoError(t, err)
			a.Equal(x != y, ne, msg)
			lt, err := fx.Lt(fy)
			require.NoError(t, err)
			a.Equal(x < y, lt, msg)
			le, err := fx.Le(fy)
			require.NoError(t, err)
			a.Equal(x <= y, le, msg)
			gt, err := fx.Gt(fy)
			require.NoError(t, err)
			a.Equal(x > y, gt, msg)
			ge, err := fx.Ge(fy)
			require.NoError(t, err)
			a.Equal(x >= y, ge, msg)

			res, ordered, err := fx.Cmp(fy)
			require.NoError(t, err)
			if math.IsNaN(x) || math.IsNaN(y) {
				a.False(ordered, msg)
				continue
			}
			a.True(ordered, msg)
			// exactly one of <, ==, > holds.
			count := 0
			for _, b := range []bool{lt, eq, gt} {
				if b {
					count++
				}
			}
			a.Equal(1, count, msg)
			a.Equal(le, lt || eq, msg)
			switch {
			case lt:
				a.Equal(-1, res, msg)
			case gt:
				a.Equal(1, res, msg)
			default:
				a.Equal(0, res, msg)
			}
		}
	}
}

func TestCompareMismatch(t *testing.T) {
	a := assert.New(t)
	x, y := MustFromFloat64(52, 11, 1), MustFromFloat64(10, 5, 1)
	for _, op := range []func(*Float) (bool, error){x.Eq, x.Ne, x.Lt, x.Le, x.Gt, x.Ge} {
		res, err := op(y)
		a.True(errors.Is(err, ErrPrecisionMismatch))
		a.False(res)
	}
	_, _, err := x.Cmp(y)
	a.True(errors.Is(err, ErrPrecisionMismatch))
}

func setMantissa(t *testing.T, f *Float, bits []uint8) *Float {
	require.NoError(t, f.SetMantissa(bits))
	return f
}

func TestPrecision(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		is, should []uint8
		precision  int
		tolerance  uint64
	}{
		{[]uint8{1, 1, 1, 1, 1, 0}, []uint8{1, 1, 1, 1, 1, 1}, 5, 1},
		{[]uint8{0, 0, 0, 0, 1, 0}, []uint8{0, 0, 0, 0, 0, 0}, 4, 2},
		{[]uint8{0, 0, 0, 0, 0, 0}, []uint8{0, 0, 0, 0, 0, 0}, 6, 0},
		{[]uint8{1, 0, 0, 0, 0, 0}, []uint8{0, 0, 0, 0, 0, 0}, 0, 32},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			is := setMantissa(t, MustFromFloat64(6, 4, 3.14), test.is)
			should := setMantissa(t, MustFromFloat64(6, 4, 3.14), test.should)
			p, err := is.Precision(should)
			if a.NoError(err) {
				a.Equal(test.precision, p)
			}
			p, err = should.Precision(is)
			if a.NoError(err) {
				a.Equal(test.precision, p)
			}
			a.True(is.CheckPrecision(should, test.tolerance))
			a.True(should.CheckPrecision(is, test.tolerance))
			if test.tolerance > 0 {
				a.False(is.CheckPrecision(should, test.tolerance-1))
			}
		})
	}
}

func TestPrecisionSpecial(t *testing.T) {
	a := assert.New(t)
	inf, nan := math.Inf(1), math.NaN()
	tests := []struct {
		x, y      float64
		precision int
		close     bool
	}{
		{nan, nan, 10, false},
		{nan, 1, math.MinInt, false},
		{inf, inf, 10, true},
		{inf, -inf, math.MinInt, false},
		{inf, 1, math.MinInt, false},
		{0, math.Copysign(0, -1), 10, true},
		{0, 1, -1, false},
		{1, 4, 0, false},
		{1, 1.5, 0, false},
		{1, 1 + 0x1p-9, 8, false},
		{1, 1 + 0x1p-10, 9, false},
		{3.125, 3.125, 10, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			x, y := MustFromFloat64(10, 5, test.x), MustFromFloat64(10, 5, test.y)
			p, err := x.Precision(y)
			if a.NoError(err) {
				a.Equal(test.precision, p)
			}
			a.Equal(test.close, x.CheckPrecision(y, 0))
		})
	}
	_, err := MustNew(10, 5).Precision(MustNew(11, 5))
	a.True(errors.Is(err, ErrPrecisionMismatch))
}

func TestCheckPrecisionShapes(t *testing.T) {
	a := assert.New(t)
	wide := MustFromFloat64(52, 11, 1+0x1p-20)
	narrow := MustFromFloat64(10, 5, 1)
	a.True(narrow.CheckPrecision(wide, 1))
	a.True(wide.CheckPrecision(narrow, 1))
	a.False(wide.CheckPrecision(narrow, 0))
	a.False(MustFromFloat64(52, 11, 1+0x1p-9).CheckPrecision(narrow, 1))
	a.True(MustFromFloat64(52, 11, 1+0x1p-9).CheckPrecision(narrow, 2))
	// the difference is below 2^-2000, but it is not zero.
	far := MustFromString(60, 30, "1e-700")
	zero := MustNew(10, 5)
	a.False(far.CheckPrecision(zero, 0))
	a.True(far.CheckPrecision(zero, 1))
}

func TestErrors(t *testing.T) {
	a := assert.New(t)
	approx := MustFromFloat64(10, 5, 3.14)
	exact := MustFromFloat64(10, 5, 3.125)
	abs, err := approx.AbsError(exact)
	if a.NoError(err) {
		a.Equal(3.140625-3.125, abs.Value())
	}
	rel, err := approx.RelError(exact)
	if a.NoError(err) {
		a.InDelta(0.005, rel.Value(), 1e-5)
	}
	a.Equal(0.015625, approx.AbsErrorFloat64(3.125))
	a.InDelta(0.000625, approx.AbsErrorFloat64(3.14), 1e-12)
	a.InDelta(0.000625/3.14, approx.RelErrorFloat64(3.14), 1e-12)
	a.True(math.IsNaN(approx.AbsErrorFloat64(math.NaN())))
	a.True(math.IsInf(approx.AbsErrorFloat64(math.Inf(-1)), 1))
	a.Equal(0.0, MustFromFloat64(52, 11, 0.1).AbsErrorFloat64(0.1))
	a.Equal(0x1p-1074, MustNew(52, 11).AbsErrorFloat64(-0x1p-1074))

	_, err = approx.AbsError(MustNew(52, 11))
	a.True(errors.Is(err, ErrPrecisionMismatch))
}

func TestAbsErrorFloat64Ties(t *testing.T) {
	a := assert.New(t)
	// 1+2^-53 is halfway between two float64 numbers, a tiny reference decides the rounding direction.
	half, err := MustFromFloat64(60, 30, 1).Add(MustFromFloat64(60, 30, 0x1p-53))
	require.NoError(t, err)
	a.Equal(1.0, half.AbsErrorFloat64(0x1p-1074))
	a.Equal(1+0x1p-52, half.AbsErrorFloat64(-0x1p-1074))
	a.Equal(1+0x1p-52, half.Neg().AbsErrorFloat64(0x1p-1074))
	a.Equal(1.0, half.Neg().AbsErrorFloat64(-0x1p-1074))

	// the reference is far below the number.
	tiny := MustFromString(60, 30, "1e-100000")
	a.Equal(0.5, MustFromFloat64(60, 30, 0.5).AbsErrorFloat64(0))
	a.Equal(0x1p-1074, tiny.AbsErrorFloat64(0x1p-1074))
	a.Equal(1.0, tiny.AbsErrorFloat64(1))
}
