package mathutil

import (
	"math/big"
	"unsafe"
)

var (
	one  = big.NewInt(1)
	five = big.NewInt(5)
	ten  = big.NewInt(10)
)

// ShiftRound returns m / 2^shift rounded to the nearest integer, ties to even.
// sticky tells that the real number had nonzero bits below the lowest bit of m.
// inexact is true if the result differs from the real quotient.
// m must not be negative.
func ShiftRound(m *big.Int, shift int, sticky bool) (result *big.Int, inexact bool) {
	if shift <= 0 {
		return new(big.Int).Lsh(m, uint(-shift)), sticky
	}
	result = new(big.Int).Rsh(m, uint(shift))
	half := m.Bit(shift-1) != 0
	rest := sticky || LowBitsNonZero(m, shift-1)
	inexact = half || rest
	if half && (rest || result.Bit(0) != 0) {
		result.Add(result, one)
	}
	return result, inexact
}

// LowBitsNonZero returns true if any of the lowest n bits of m is set.
func LowBitsNonZero(m *big.Int, n int) bool {
	if n <= 0 || m.Sign() == 0 {
		return false
	}
	tz := int(m.TrailingZeroBits())
	return tz < n
}

// Top returns the binary exponent of the leading bit of m*2^e,
// so that 2^top <= m*2^e < 2^(top+1). m must be positive.
func Top(m *big.Int, e int) int {
	return e + m.BitLen() - 1
}

// CmpScaled compares m1*2^e1 and m2*2^e2 for nonnegative m1 and m2.
// Returns -1 if a < b, 0 if a == b, 1 if a > b
func CmpScaled(m1 *big.Int, e1 int, m2 *big.Int, e2 int) int {
	s1, s2 := m1.Sign(), m2.Sign()
	if s1 == 0 || s2 == 0 {
		return s1 - s2
	}
	t1, t2 := Top(m1, e1), Top(m2, e2)
	if t1 != t2 {
		return IntCmp(t1, t2)
	}
	// equal leading bits, so the shift is bounded by the mantissa lengths.
	if e1 > e2 {
		return new(big.Int).Lsh(m1, uint(e1-e2)).Cmp(m2)
	}
	return m1.Cmp(new(big.Int).Lsh(m2, uint(e2-e1)))
}

// Pow10 returns 10^pow as a big integer. pow must not be negative.
func Pow10(pow int) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(pow)), nil)
}

// Pow5 returns 5^pow as a big integer. pow must not be negative.
func Pow5(pow int) *big.Int {
	return new(big.Int).Exp(five, big.NewInt(int64(pow)), nil)
}

// DecimalDigitsForBits returns the upper bound of decimal digits in a number of 'n' binary digits.
func DecimalDigitsForBits(n int) int {
	// log10(2) ~= 0.30103
	return n*30103/100000 + 1
}

func IntCmp(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func AbsInt(val int) int {
	mask := val >> (unsafe.Sizeof(int(0))*8 - 1)
	return (val + mask) ^ mask
}
