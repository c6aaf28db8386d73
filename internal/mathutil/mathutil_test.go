package mathutil

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftRound(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		m       int64
		shift   int
		sticky  bool
		res     int64
		inexact bool
	}{
		{0b1011, 0, false, 0b1011, false},
		{0b1011, -2, false, 0b101100, false},
		{0b1000, 3, false, 1, false},
		{0b1011, 2, false, 0b11, true},  // 2.75 -> 3
		{0b1001, 2, false, 0b10, true},  // 2.25 -> 2
		{0b1010, 2, false, 0b10, true},  // 2.5 -> 2, tie to even
		{0b1110, 2, false, 0b100, true}, // 3.5 -> 4, tie to even
		{0b1010, 2, true, 0b11, true},   // 2.5+ -> 3
		{0b1000, 2, true, 0b10, true},   // 2+ -> 2
		{0b11, 2, false, 1, true},       // 0.75 -> 1
		{0b1, 2, false, 0, true},        // 0.25 -> 0
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			res, inexact := ShiftRound(big.NewInt(test.m), test.shift, test.sticky)
			a.Equal(test.res, res.Int64())
			a.Equal(test.inexact, inexact)
		})
	}
}

func TestCmpScaled(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		m1     int64
		e1     int
		m2     int64
		e2     int
		result int
	}{
		{0, 0, 0, 100, 0},
		{0, 0, 1, -100, -1},
		{1, 1, 2, 0, 0},
		{3, 1, 5, 0, 1},
		{3, 1, 7, 0, -1},
		{1, 1000, 1, 999, 1},
		{12, -3, 3, -1, 0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.result, CmpScaled(big.NewInt(test.m1), test.e1, big.NewInt(test.m2), test.e2))
			a.Equal(-test.result, CmpScaled(big.NewInt(test.m2), test.e2, big.NewInt(test.m1), test.e1))
		})
	}
}

func TestTop(t *testing.T) {
	a := assert.New(t)
	a.Equal(0, Top(big.NewInt(1), 0))
	a.Equal(3, Top(big.NewInt(0b1011), 0))
	a.Equal(-1, Top(big.NewInt(0b11), -2))
}

func TestAbsInt(t *testing.T) {
	a := assert.New(t)
	a.Equal(5, AbsInt(-5))
	a.Equal(5, AbsInt(5))
	a.Equal(0, AbsInt(0))
}

func BenchmarkShiftRound(b *testing.B) {
	m := new(big.Int).Lsh(big.NewInt(0x1234567), 200)
	for i := 0; i < b.N; i++ {
		ShiftRound(m, 150, false)
	}
}
