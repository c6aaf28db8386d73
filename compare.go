// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"math"
	"math/big"

	mu "github.com/avdva/mpfloat/internal/mathutil"
)

// Cmp compares f and other. Both numbers must have the same lengths.
// Returns -1 if f < other, 0 if f == other, 1 if f > other.
// ordered is false if any of the numbers is NaN, in this case result is 0.
// Negative and positive zeros are equal.
func (f *Float) Cmp(other *Float) (result int, ordered bool, err error) {
	if err := f.sameShape(other, "cmp"); err != nil {
		return 0, false, err
	}
	result, ordered = cmpUnpacked(f.unpack(), other.unpack())
	return result, ordered, nil
}

func cmpUnpacked(x, y unpacked) (int, bool) {
	if x.class == classNaN || y.class == classNaN {
		return 0, false
	}
	rx, ry := rank(x), rank(y)
	if rx != ry || x.class != classFinite {
		return mu.IntCmp(rx, ry), true
	}
	result := mu.CmpScaled(x.mant, x.exp, y.mant, y.exp)
	if x.neg {
		result = -result
	}
	return result, true
}

// rank orders numbers by sign and class: -Inf, negative, zero, positive, +Inf.
func rank(u unpacked) int {
	var r int
	switch u.class {
	case classZero:
		return 0
	case classInf:
		r = 2
	default:
		r = 1
	}
	if u.neg {
		r = -r
	}
	return r
}

// Eq returns true if f == other. NaN is not equal to anything, including itself.
func (f *Float) Eq(other *Float) (bool, error) {
	result, ordered, err := f.Cmp(other)
	return ordered && result == 0, err
}

// Ne returns true if f != other. It is true if any of the numbers is NaN.
func (f *Float) Ne(other *Float) (bool, error) {
	result, ordered, err := f.Cmp(other)
	if err != nil {
		return false, err
	}
	return !ordered || result != 0, nil
}

// Lt returns true if f < other.
func (f *Float) Lt(other *Float) (bool, error) {
	result, ordered, err := f.Cmp(other)
	return ordered && result < 0, err
}

// Le returns true if f <= other.
func (f *Float) Le(other *Float) (bool, error) {
	result, ordered, err := f.Cmp(other)
	return ordered && result <= 0, err
}

// Gt returns true if f > other.
func (f *Float) Gt(other *Float) (bool, error) {
	result, ordered, err := f.Cmp(other)
	return ordered && result > 0, err
}

// Ge returns true if f >= other.
func (f *Float) Ge(other *Float) (bool, error) {
	result, ordered, err := f.Cmp(other)
	return ordered && result >= 0, err
}

// CheckPrecision returns true if |f - other| does not exceed 'tolerance' units in the last place.
// The unit is taken from the coarser of the numbers: the shorter mantissa and
// the larger of the two exponents. The numbers may have different lengths.
// NaNs are never close to anything. Infinities are only close to infinities with the same sign.
func (f *Float) CheckPrecision(other *Float, tolerance uint64) bool {
	x, y := f.unpack(), other.unpack()
	switch {
	case x.class == classNaN || y.class == classNaN:
		return false
	case x.class == classInf || y.class == classInf:
		return x.class == y.class && x.neg == y.neg
	case x.class == classZero && y.class == classZero:
		return true
	}
	mantLen := f.mantLen
	if other.mantLen < mantLen {
		mantLen = other.mantLen
	}
	prec := f.mantLen
	if other.mantLen > prec {
		prec = other.mantLen
	}
	emin := f.emin()
	if e := other.emin(); e > emin {
		emin = e
	}
	top := maxTop(x, y)
	if top < emin {
		top = emin
	}
	m, e := absDiff(x, y, prec+guardBits)
	return mu.CmpScaled(m, e, new(big.Int).SetUint64(tolerance), top-mantLen) <= 0
}

// Precision returns the number of leading mantissa bits, which are the same in f and other.
// It is the mantissa length if the numbers are equal, and may be negative, if their exponents
// differ by more than one. Two NaNs, or infinities with the same sign are considered equal.
// If only one of the numbers is NaN or infinity, the result is math.MinInt.
// Both numbers must have the same lengths.
func (f *Float) Precision(other *Float) (int, error) {
	if err := f.sameShape(other, "precision"); err != nil {
		return 0, err
	}
	x, y := f.unpack(), other.unpack()
	switch {
	case x.class == classNaN || y.class == classNaN:
		if x.class == y.class {
			return f.mantLen, nil
		}
		return math.MinInt, nil
	case x.class == classInf || y.class == classInf:
		if x.class == y.class && x.neg == y.neg {
			return f.mantLen, nil
		}
		return math.MinInt, nil
	case x.class == classZero && y.class == classZero:
		return f.mantLen, nil
	}
	m, e := absDiff(x, y, f.mantLen+guardBits)
	if m.Sign() == 0 {
		return f.mantLen, nil
	}
	top := maxTop(x, y)
	if emin := f.emin(); top < emin {
		top = emin
	}
	// d is the difference in units of the last place of the larger number.
	d := new(big.Int)
	if shift := top - f.mantLen - e; shift > 0 {
		d.Rsh(m, uint(shift))
	} else {
		d.Lsh(m, uint(-shift))
	}
	return f.mantLen - d.BitLen(), nil
}

// maxTop returns the largest leading bit exponent of two finite numbers, where at least one is nonzero.
func maxTop(x, y unpacked) int {
	switch {
	case x.class == classZero:
		return y.top()
	case y.class == classZero:
		return x.top()
	}
	if t := y.top(); t > x.top() {
		return t
	}
	return x.top()
}

// absDiff returns |x - y| for finite numbers as m*2^e.
// If the difference is inexact, it has more than 'prec' significant bits and its lowest bit is set.
func absDiff(x, y unpacked, prec int) (*big.Int, int) {
	switch {
	case x.class == classZero:
		return y.mant, y.exp
	case y.class == classZero:
		return x.mant, x.exp
	}
	_, m, e := sum(x, y.negated(), prec)
	return m, e
}

// AbsError returns |other - f|. Both numbers must have the same lengths.
func (f *Float) AbsError(other *Float) (*Float, error) {
	d, err := other.Sub(f)
	if err != nil {
		return nil, err
	}
	d.SetSign(false)
	return d, nil
}

// RelError returns |other - f| / |other|. Both numbers must have the same lengths.
func (f *Float) RelError(other *Float) (*Float, error) {
	d, err := f.AbsError(other)
	if err != nil {
		return nil, err
	}
	return d.Quo(other.Abs())
}

// AbsErrorFloat64 returns |ref - f| rounded to float64.
func (f *Float) AbsErrorFloat64(ref float64) float64 {
	u := f.unpack()
	if u.class == classNaN || u.class == classInf || math.IsNaN(ref) || math.IsInf(ref, 0) {
		return math.Abs(ref - f.Value())
	}
	// the difference is calculated exactly, and rounded only once.
	x := u.bigFloat(uint(f.mantLen + 1))
	r := new(big.Float).SetFloat64(ref)
	width := f.mantLen + 1
	if width < 53 {
		width = 53
	}
	var span int
	if x.Sign() != 0 && r.Sign() != 0 {
		span = mu.AbsInt(x.MantExp(nil) - r.MantExp(nil))
		if span > width+2 {
			// a number below the last bit of the other one only matters for rounding,
			// so it is replaced with a closer number with the same sign.
			small, large := r, x
			if x.MantExp(nil) < r.MantExp(nil) {
				small, large = x, r
			}
			sticky := new(big.Float).SetMantExp(big.NewFloat(0.5), large.MantExp(nil)-width-2)
			if small.Sign() < 0 {
				sticky.Neg(sticky)
			}
			small.Set(sticky)
			span = width + 3
		}
	}
	d := new(big.Float).SetMode(big.ToNearestEven).SetPrec(uint(width + span + 4))
	d.Sub(r, x)
	v, _ := d.Abs(d).Float64()
	return v
}

// RelErrorFloat64 returns |ref - f| / |ref|.
func (f *Float) RelErrorFloat64(ref float64) float64 {
	return f.AbsErrorFloat64(ref) / math.Abs(ref)
}
