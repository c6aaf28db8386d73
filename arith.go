// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"math/big"
)

// guardBits is the number of bits kept below the mantissa during calculations.
// Two bits and a sticky flag are enough to round correctly, the third one simplifies alignment.
const guardBits = 3

// Add returns f + other. Both numbers must have the same lengths.
func (f *Float) Add(other *Float) (*Float, error) {
	if err := f.sameShape(other, "add"); err != nil {
		return nil, err
	}
	z := newFloat(f.mantLen, f.expLen)
	z.add(f.unpack(), other.unpack())
	return z, nil
}

// Sub returns f - other. Both numbers must have the same lengths.
func (f *Float) Sub(other *Float) (*Float, error) {
	if err := f.sameShape(other, "sub"); err != nil {
		return nil, err
	}
	z := newFloat(f.mantLen, f.expLen)
	// a-b = a+(-b)
	z.add(f.unpack(), other.unpack().negated())
	return z, nil
}

// Mul returns f * other. Both numbers must have the same lengths.
func (f *Float) Mul(other *Float) (*Float, error) {
	if err := f.sameShape(other, "mul"); err != nil {
		return nil, err
	}
	z := newFloat(f.mantLen, f.expLen)
	z.mul(f.unpack(), other.unpack())
	return z, nil
}

// Quo returns f / other. Both numbers must have the same lengths.
// Division of a nonzero number by zero returns an infinity, 0/0 returns NaN.
func (f *Float) Quo(other *Float) (*Float, error) {
	if err := f.sameShape(other, "quo"); err != nil {
		return nil, err
	}
	z := newFloat(f.mantLen, f.expLen)
	z.quo(f.unpack(), other.unpack())
	return z, nil
}

// Abs returns |f|.
func (f *Float) Abs() *Float {
	z := f.Copy()
	z.SetSign(false)
	return z
}

// Neg returns -f.
func (f *Float) Neg() *Float {
	z := f.Copy()
	z.SetSign(!f.Sign())
	return z
}

func (z *Float) add(x, y unpacked) {
	switch {
	case x.class == classNaN || y.class == classNaN:
		z.SetNaN(false)
	case x.class == classInf && y.class == classInf:
		if x.neg == y.neg {
			z.SetInf(x.neg)
		} else {
			z.SetNaN(false)
		}
	case x.class == classInf:
		z.SetInf(x.neg)
	case y.class == classInf:
		z.SetInf(y.neg)
	case x.class == classZero && y.class == classZero:
		// -0 only if both are negative.
		z.SetZero(x.neg && y.neg)
	case x.class == classZero:
		z.pack(y)
	case y.class == classZero:
		z.pack(x)
	default:
		neg, m, e := sum(x, y, z.mantLen+guardBits)
		z.round(neg, m, e, false)
	}
}

// sum returns x+y for finite nonzero numbers.
// If the result cannot be represented exactly with 'prec' bits,
// the bits below are replaced with a single bit, which is enough to round the result,
// or to compare it with a number having less than 'prec' significant bits.
// An exact zero is positive.
func sum(x, y unpacked, prec int) (neg bool, m *big.Int, e int) {
	if x.top() < y.top() {
		x, y = y, x
	}
	if x.top()-y.top() > prec {
		// y is less than a half of x's lowest bit, so it only affects rounding.
		shift := prec - x.mant.BitLen()
		m = new(big.Int).Lsh(x.mant, uint(shift+1))
		if x.neg == y.neg {
			m.Add(m, big.NewInt(1))
		} else {
			m.Sub(m, big.NewInt(1))
		}
		return x.neg, m, x.exp - shift - 1
	}
	// the exponents are close, so shifting is cheap.
	e = x.exp
	if y.exp < e {
		e = y.exp
	}
	mx := new(big.Int).Lsh(x.mant, uint(x.exp-e))
	my := new(big.Int).Lsh(y.mant, uint(y.exp-e))
	if x.neg == y.neg {
		return x.neg, mx.Add(mx, my), e
	}
	m = mx.Sub(mx, my)
	switch m.Sign() {
	case 0:
		return false, m, e
	case -1:
		return y.neg, m.Neg(m), e
	}
	return x.neg, m, e
}

func (z *Float) mul(x, y unpacked) {
	neg := x.neg != y.neg
	switch {
	case x.class == classNaN || y.class == classNaN:
		z.SetNaN(false)
	case x.class == classInf && y.class == classZero, x.class == classZero && y.class == classInf:
		z.SetNaN(false)
	case x.class == classInf || y.class == classInf:
		z.SetInf(neg)
	case x.class == classZero || y.class == classZero:
		z.SetZero(neg)
	default:
		m := new(big.Int).Mul(x.mant, y.mant)
		z.round(neg, m, x.exp+y.exp, false)
	}
}

func (z *Float) quo(x, y unpacked) {
	neg := x.neg != y.neg
	switch {
	case x.class == classNaN || y.class == classNaN:
		z.SetNaN(false)
	case x.class == classInf && y.class == classInf, x.class == classZero && y.class == classZero:
		z.SetNaN(false)
	case x.class == classInf, y.class == classZero:
		z.SetInf(neg)
	case y.class == classInf, x.class == classZero:
		z.SetZero(neg)
	default:
		// shift the dividend, so that the quotient has enough bits for rounding.
		shift := z.mantLen + guardBits + y.mant.BitLen() - x.mant.BitLen()
		if shift < 0 {
			shift = 0
		}
		num := new(big.Int).Lsh(x.mant, uint(shift))
		q, r := new(big.Int).QuoRem(num, y.mant, new(big.Int))
		z.round(neg, q, x.exp-y.exp-shift, r.Sign() != 0)
	}
}
