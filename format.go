// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	mu "github.com/avdva/mpfloat/internal/mathutil"
)

// BitString returns the bit array as a string of '0' and '1', the sign bit goes first.
func (f *Float) BitString() string {
	return f.bits.String()
}

// FieldString returns the bit array, where the sign, the exponent, and the mantissa are separated with spaces.
func (f *Float) FieldString() string {
	var b strings.Builder
	b.Grow(f.bits.Len() + 2)
	f.bits.WriteBits(&b, signBit, expFrom)
	b.WriteByte(' ')
	f.bits.WriteBits(&b, expFrom, f.mantFrom())
	b.WriteByte(' ')
	f.bits.WriteBits(&b, f.mantFrom(), f.bits.Len())
	return b.String()
}

// String returns the shortest decimal representation, which is converted back into the same number.
// Special values are "NaN", "+Inf", "-Inf", and "-0".
func (f *Float) String() string {
	u := f.unpack()
	switch u.class {
	case classNaN:
		return "NaN"
	case classZero:
		if u.neg {
			return "-0"
		}
		return "0"
	}
	return u.bigFloat(f.prec()).Text('g', -1)
}

// GoString returns debug string representation.
func (f *Float) GoString() string {
	return f.String() + fmt.Sprintf(" {m: %d, e: %d, bits: %s}", f.mantLen, f.expLen, f.FieldString())
}

// Text returns f as a decimal number with 'prec' digits after the delimiter, rounded half away from zero.
// If prec is negative, the exact decimal value is returned.
// Infinities and NaNs are formatted as by String.
func (f *Float) Text(prec int) string {
	d, ok := f.Decimal()
	if !ok {
		return f.String()
	}
	if prec < 0 {
		return d.String()
	}
	return d.StringFixed(int32(prec))
}

// Decimal returns the exact decimal value of f.
// ok is false for infinities and NaNs. Negative zero becomes zero.
func (f *Float) Decimal() (d decimal.Decimal, ok bool) {
	u := f.unpack()
	switch u.class {
	case classNaN, classInf:
		return decimal.Zero, false
	case classZero:
		return decimal.Zero, true
	}
	m := new(big.Int).Set(u.mant)
	e := 0
	if u.exp >= 0 {
		m.Lsh(m, uint(u.exp))
	} else {
		// m / 2^k = m * 5^k / 10^k
		m.Mul(m, mu.Pow5(-u.exp))
		e = u.exp
	}
	if u.neg {
		m.Neg(m)
	}
	return decimal.NewFromBigInt(m, int32(e)), true
}

// Format implements fmt.Formatter.
// 'b' prints the bit array, 's' and 'v' print the same as String,
// other verbs are handled the same way as for big.Float.
func (f *Float) Format(s fmt.State, verb rune) {
	switch verb {
	case 'b':
		pad(s, f.BitString())
		return
	case 's', 'v':
		if verb == 'v' && s.Flag('#') {
			fmt.Fprint(s, f.GoString())
			return
		}
		pad(s, f.String())
		return
	}
	u := f.unpack()
	if u.class == classNaN {
		pad(s, "NaN")
		return
	}
	u.bigFloat(f.prec()).Format(s, verb)
}

func pad(s fmt.State, str string) {
	w, ok := s.Width()
	if !ok || w <= len(str) {
		fmt.Fprint(s, str)
		return
	}
	filling := strings.Repeat(" ", w-len(str))
	if s.Flag('-') {
		fmt.Fprint(s, str, filling)
	} else {
		fmt.Fprint(s, filling, str)
	}
}

// prec returns the number of significant bits in a normal number.
func (f *Float) prec() uint {
	return uint(f.mantLen + 1)
}
