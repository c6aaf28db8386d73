// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		f   *Float
		res string
	}{
		{MustFromFloat64(52, 11, 7), "7"},
		{MustFromFloat64(52, 11, -1), "-1"},
		{MustFromFloat64(52, 11, 0.75), "0.75"},
		{MustFromFloat64(52, 11, 0.1), "0.1"},
		{MustFromFloat64(52, 11, 1e21), "1e+21"},
		{MustFromFloat64(23, 8, 0.1), "0.1"},
		{MustFromFloat64(10, 5, 3.14), "3.14"},
		{MustFromFloat64(4, 2, 3.625), "3.6"},
		{MustNew(4, 2), "0"},
		{MustFromFloat64(4, 2, math.Copysign(0, -1)), "-0"},
		{MustFromFloat64(10, 5, math.Inf(1)), "+Inf"},
		{MustFromFloat64(10, 5, math.Inf(-1)), "-Inf"},
		{MustFromFloat64(10, 5, math.NaN()), "NaN"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.res, test.f.String())
			back, err := NewFromString(test.f.MantissaLength(), test.f.ExponentLength(), test.f.String())
			if a.NoError(err) {
				a.Equal(test.f.BitString(), back.BitString())
			}
		})
	}
}

func TestText(t *testing.T) {
	a := assert.New(t)
	f := MustFromFloat64(4, 2, 3.625)
	a.Equal("3.63", f.Text(2))
	a.Equal("3.625", f.Text(-1))
	a.Equal("4", f.Text(0))
	a.Equal("3.62500", f.Text(5))
	a.Equal("0.1000000000000000055511151231257827021181583404541015625", MustFromFloat64(52, 11, 0.1).Text(-1))
	a.Equal("-0.0000000596046447753906250", MustFromFloat64(10, 5, -0x1p-24).Text(25))
	a.Equal("+Inf", MustFromFloat64(10, 5, math.Inf(1)).Text(3))

	d, ok := MustFromFloat64(10, 5, -100.5).Decimal()
	a.True(ok)
	a.True(decimal.RequireFromString("-100.5").Equal(d))
	d, ok = MustFromFloat64(10, 5, 0x1p15).Decimal()
	a.True(ok)
	a.True(decimal.NewFromInt(32768).Equal(d))
	_, ok = MustFromFloat64(10, 5, math.NaN()).Decimal()
	a.False(ok)
}

func TestFormat(t *testing.T) {
	a := assert.New(t)
	f := MustFromFloat64(4, 2, 3.625)
	a.Equal("0101101", fmt.Sprintf("%b", f))
	a.Equal("3.6", fmt.Sprintf("%v", f))
	a.Equal("     3.6", fmt.Sprintf("%8s", f))
	a.Equal("3.6     |", fmt.Sprintf("%-8s|", f))
	a.Equal("3.62", fmt.Sprintf("%.2f", f))
	a.Equal("3.625000e+00", fmt.Sprintf("%e", f))
	a.Equal("NaN", fmt.Sprintf("%.2f", MustFromFloat64(4, 2, math.NaN())))
	a.Equal("0 10 1101", f.FieldString())
	a.Equal("3.6 {m: 4, e: 2, bits: 0 10 1101}", fmt.Sprintf("%#v", f))
	a.Equal("3.6 {m: 4, e: 2, bits: 0 10 1101}", f.GoString())
}
