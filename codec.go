// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"math"
	"math/big"

	mu "github.com/avdva/mpfloat/internal/mathutil"
)

type class uint8

const (
	classZero class = iota
	classFinite
	classInf
	classNaN
)

// unpacked is a decoded number.
// For finite numbers the value is (-1)^neg * mant * 2^exp, mant > 0.
type unpacked struct {
	class class
	neg   bool
	mant  *big.Int
	exp   int
}

func (u unpacked) negated() unpacked {
	u.neg = !u.neg
	return u
}

// top returns the exponent of the leading bit of a finite number.
func (u unpacked) top() int {
	return mu.Top(u.mant, u.exp)
}

func (f *Float) bias() int {
	return 1<<(f.expLen-1) - 1
}

// emin is the exponent of normal numbers with the smallest exponent field and of all subnormals.
func (f *Float) emin() int {
	return 1 - f.bias()
}

func (f *Float) unpack() unpacked {
	u := unpacked{neg: f.Sign()}
	mantFrom := f.mantFrom()
	expField := f.bits.Uint64(expFrom, mantFrom)
	mantNonZero := f.mantNonZero()
	switch {
	case expField == 1<<f.expLen-1:
		if mantNonZero {
			u.class = classNaN
		} else {
			u.class = classInf
		}
		return u
	case expField == 0 && !mantNonZero:
		u.class = classZero
		return u
	}
	u.class = classFinite
	u.mant = f.bits.Int(mantFrom, f.bits.Len())
	if expField == 0 { // subnormal
		u.exp = f.emin() - f.mantLen
		return u
	}
	u.mant.SetBit(u.mant, f.mantLen, 1) // the implicit leading bit
	u.exp = int(expField) - f.bias() - f.mantLen
	return u
}

// pack encodes u, rounding it if necessary.
func (f *Float) pack(u unpacked) {
	switch u.class {
	case classZero:
		f.SetZero(u.neg)
	case classInf:
		f.SetInf(u.neg)
	case classNaN:
		f.SetNaN(u.neg)
	default:
		f.round(u.neg, u.mant, u.exp, false)
	}
}

// round encodes (-1)^neg * (m + s) * 2^e, where 0 < s < 1 if sticky is set, and s == 0 otherwise.
// The result is rounded to nearest, ties to even.
// If the number is too large, f becomes an infinity. If it is too small, f becomes a subnormal or a zero.
// If sticky is set, m must have at least two more bits than the mantissa.
func (f *Float) round(neg bool, m *big.Int, e int, sticky bool) {
	if m.Sign() == 0 {
		f.SetZero(neg)
		return
	}
	emin := f.emin()
	top := mu.Top(m, e)
	subnormal := top < emin
	// q is the exponent of the lowest mantissa bit.
	q := top - f.mantLen
	if subnormal {
		q = emin - f.mantLen
	}
	r, _ := mu.ShiftRound(m, q-e, sticky)
	mantFrom := f.mantFrom()
	f.SetSign(neg)
	if subnormal {
		// r <= 2^mantLen, where r == 2^mantLen is the smallest normal number,
		// so the lowest exponent bit is r's bit at the mantLen position.
		f.bits.SetUint64(expFrom, mantFrom, uint64(r.Bit(f.mantLen)))
		f.bits.SetInt(mantFrom, f.bits.Len(), r)
		return
	}
	if r.BitLen() > f.mantLen+1 { // rounding carried into the next binade.
		r.Rsh(r, 1)
		top++
	}
	if top > f.bias() {
		f.SetInf(neg)
		return
	}
	f.bits.SetUint64(expFrom, mantFrom, uint64(top+f.bias()))
	f.bits.SetInt(mantFrom, f.bits.Len(), r) // the leading bit is implicit and does not fit.
}

// SetFloat64 sets f to the value closest to v.
func (f *Float) SetFloat64(v float64) {
	switch {
	case math.IsNaN(v):
		f.SetNaN(math.Signbit(v))
	case math.IsInf(v, 0):
		f.SetInf(v < 0)
	case v == 0:
		f.SetZero(math.Signbit(v))
	default:
		frac, exp := math.Frexp(math.Abs(v))
		// frac is in [0.5, 1), so it has exactly 53 significant bits.
		m := int64(math.Ldexp(frac, 53))
		f.round(v < 0, big.NewInt(m), exp-53, false)
	}
}

// Value returns the float64 value closest to f.
// Numbers with more than 52 mantissa bits, or 11 exponent bits lose their precision,
// or become zeros and infinities.
func (f *Float) Value() float64 {
	u := f.unpack()
	switch u.class {
	case classNaN:
		return math.NaN()
	case classInf:
		if u.neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case classZero:
		if u.neg {
			return math.Copysign(0, -1)
		}
		return 0
	}
	v, _ := u.bigFloat(uint(f.mantLen + 1)).Float64()
	return v
}

func (u unpacked) bigFloat(prec uint) *big.Float {
	z := new(big.Float).SetPrec(prec)
	switch u.class {
	case classInf:
		return z.SetInf(u.neg)
	case classZero:
		if u.neg {
			z.Neg(z)
		}
		return z
	}
	z.SetInt(u.mant)
	z.SetMantExp(z, u.exp)
	if u.neg {
		z.Neg(z)
	}
	return z
}
