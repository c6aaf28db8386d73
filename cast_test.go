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

func TestCastIdempotent(t *testing.T) {
	a := assert.New(t)
	values := []float64{0, math.Copysign(0, -1), 3.14, -1e-310, math.Inf(1), math.NaN(), math.MaxFloat64}
	for i, v := range values {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			f := MustFromFloat64(52, 11, v)
			before := f.Bits()
			a.NoError(f.Cast(52, 11))
			a.Equal(before, f.Bits())
		})
	}
}

func TestCastDownUp(t *testing.T) {
	a := assert.New(t)
	r := rand.New(rand.NewSource(6))
	shapes := [][2]int{{10, 5}, {23, 8}, {40, 11}, {8, 11}}
	for i := 0; i < 300; i++ {
		// normal numbers for all shapes.
		v := math.Ldexp(1+r.Float64(), r.Intn(20)-10)
		if r.Intn(2) == 0 {
			v = -v
		}
		for _, shape := range shapes {
			wide := MustFromFloat64(52, 11, v)
			narrow, err := wide.CastTo(shape[0], shape[1])
			require.NoError(t, err)
			a.True(narrow.CheckPrecision(wide, 1), "%v at %v", v, shape)

			up, err := narrow.CastTo(52, 11)
			require.NoError(t, err)
			a.True(up.CheckPrecision(narrow, 1), "%v at %v", v, shape)
			// casting up is exact.
			a.True(up.CheckPrecision(narrow, 0), "%v at %v", v, shape)
			p, err := up.Precision(wide)
			require.NoError(t, err)
			a.GreaterOrEqual(p, shape[0], "%v at %v", v, shape)
		}
	}
}

func TestCastFloat32(t *testing.T) {
	a := assert.New(t)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		v := randFloat64(r, -160, 130)
		f := MustFromFloat64(52, 11, v)
		require.NoError(t, f.Cast(23, 8))
		assertSameFloat64(a, float64(float32(v)), f.Value(), "%v", v)
		a.Equal(32, f.BitArrayLength())
	}
}

func TestCastSpecial(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		v         float64
		m, e      int
		zero, inf bool
	}{
		{1e300, 23, 8, false, true},
		{-1e300, 10, 5, false, true},
		{1e-300, 23, 8, true, false},
		{65504, 10, 5, false, false},
		{65520, 10, 5, false, true},
		{math.Inf(-1), 200, 20, false, true},
		{math.Inf(1), 1, 1, false, true},
		{math.Copysign(0, -1), 100, 3, true, false},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			f := MustFromFloat64(52, 11, test.v)
			a.NoError(f.Cast(test.m, test.e))
			a.Equal(test.zero, f.IsZero())
			a.Equal(test.inf, f.IsInf())
			a.Equal(test.v < 0 || math.Signbit(test.v), f.Sign())
		})
	}

	for _, neg := range []bool{false, true} {
		f := MustNew(52, 11)
		f.SetNaN(neg)
		a.NoError(f.Cast(4, 2))
		a.True(f.IsNaN())
		a.Equal(neg, f.Sign())
		a.NoError(f.Cast(300, 25))
		a.True(f.IsNaN())
	}
}

func TestCastErrors(t *testing.T) {
	a := assert.New(t)
	f := MustFromFloat64(52, 11, 1.5)
	before := f.Bits()
	a.True(errors.Is(f.Cast(0, 11), ErrConfiguration))
	a.True(errors.Is(f.Cast(52, 0), ErrConfiguration))
	a.True(errors.Is(f.Cast(52, MaxExponentLength+1), ErrConfiguration))
	a.Equal(before, f.Bits())
	a.Equal(52, f.MantissaLength())
	_, err := f.CastTo(-1, 5)
	a.True(errors.Is(err, ErrConfiguration))
}

func TestCastSubnormal(t *testing.T) {
	a := assert.New(t)
	// the smallest float64 is a subnormal, but it is normal with a longer exponent.
	f := MustFromFloat64(52, 11, math.SmallestNonzeroFloat64)
	require.NoError(t, f.Cast(52, 12))
	a.Equal(math.SmallestNonzeroFloat64, f.Value())
	a.True(f.bits.AnyOnes(expFrom, f.mantFrom()))
	a.False(f.bits.AnyOnes(f.mantFrom(), f.bits.Len()))
	require.NoError(t, f.Cast(52, 11))
	a.Equal(math.SmallestNonzeroFloat64, f.Value())
	a.False(f.bits.AnyOnes(expFrom, f.mantFrom()))
}
