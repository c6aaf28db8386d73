// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package mpfloat implements a binary floating-point number with configurable
// mantissa and exponent lengths.
//
// A Float is stored as a bit array, where the sign bit goes first, then the exponent field,
// and then the mantissa field:
//
//	0  1              e  e+1                            e+m
//	s  eeeeeeeeeeeeeee   mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm
//
// The layout follows IEEE-754 rules: the exponent is biased by 2^(e-1)-1, numbers with a zero exponent
// field are subnormal, and an all-ones exponent field encodes infinities and NaNs.
// All operations are performed with exact integer arithmetic and rounded to nearest, ties to even,
// so any widths can be simulated, not only the ones supported by hardware.
package mpfloat

import (
	"errors"
	"fmt"

	"github.com/avdva/mpfloat/internal/bitarray"
)

const (
	// MaxExponentLength is the maximum supported length of the exponent field.
	MaxExponentLength = 31
	// MaxMantissaLength is the maximum supported length of the mantissa field.
	MaxMantissaLength = 1 << 20

	signBit = 0
	expFrom = 1
)

var (
	// ErrConfiguration is returned for mantissa or exponent lengths out of the supported range.
	ErrConfiguration = errors.New("bad configuration")
	// ErrLengthMismatch is returned if a bit sequence does not match the length of a field.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrPrecisionMismatch is returned if the operands of an operation have different lengths.
	ErrPrecisionMismatch = errors.New("precision mismatch")
	// ErrInvalidBit is returned if a bit sequence contains values other than 0 and 1.
	ErrInvalidBit = errors.New("invalid bit value")
)

// Float is a floating-point number with configurable mantissa and exponent lengths.
// The bit array is the only state: the value is decoded every time it is requested.
//
// A Float must not be modified concurrently, but it is safe to read it from several goroutines.
type Float struct {
	mantLen, expLen int
	bits            bitarray.Array
}

func checkLengths(mantLen, expLen int) error {
	if mantLen < 1 || mantLen > MaxMantissaLength || expLen < 1 || expLen > MaxExponentLength {
		return fmt.Errorf("%w: mantissa length %d, exponent length %d", ErrConfiguration, mantLen, expLen)
	}
	return nil
}

func newFloat(mantLen, expLen int) *Float {
	return &Float{
		mantLen: mantLen,
		expLen:  expLen,
		bits:    bitarray.New(mantLen + expLen + 1),
	}
}

// New returns a positive zero with given mantissa and exponent lengths.
// Both lengths must be positive.
func New(mantLen, expLen int) (*Float, error) {
	if err := checkLengths(mantLen, expLen); err != nil {
		return nil, err
	}
	return newFloat(mantLen, expLen), nil
}

// MustNew is like New, but panics on error.
func MustNew(mantLen, expLen int) *Float {
	f, err := New(mantLen, expLen)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFromFloat64 returns a number with given lengths closest to v.
func NewFromFloat64(mantLen, expLen int, v float64) (*Float, error) {
	f, err := New(mantLen, expLen)
	if err != nil {
		return nil, err
	}
	f.SetFloat64(v)
	return f, nil
}

// MustFromFloat64 is like NewFromFloat64, but panics on error.
func MustFromFloat64(mantLen, expLen int, v float64) *Float {
	f, err := NewFromFloat64(mantLen, expLen, v)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFromBits returns a number with given lengths and the bit array.
// The length of bits must be mantLen + expLen + 1.
func NewFromBits(mantLen, expLen int, bits []uint8) (*Float, error) {
	f, err := New(mantLen, expLen)
	if err != nil {
		return nil, err
	}
	if err := checkBits(bits, f.bits.Len(), "bit array"); err != nil {
		return nil, err
	}
	f.bits = bitarray.FromBits(bits)
	return f, nil
}

func checkBits(bits []uint8, expected int, field string) error {
	if len(bits) != expected {
		return fmt.Errorf("%w: %s has %d bits, expected %d", ErrLengthMismatch, field, len(bits), expected)
	}
	for i, b := range bits {
		if b > 1 {
			return fmt.Errorf("%w: %s[%d] = %d", ErrInvalidBit, field, i, b)
		}
	}
	return nil
}

// MantissaLength returns the number of bits in the mantissa field.
func (f *Float) MantissaLength() int {
	return f.mantLen
}

// ExponentLength returns the number of bits in the exponent field.
func (f *Float) ExponentLength() int {
	return f.expLen
}

// BitArrayLength returns the number of bits in the whole number: mantissa, exponent, and the sign.
func (f *Float) BitArrayLength() int {
	return f.bits.Len()
}

// Bits returns a copy of the bit array: the sign bit, the exponent, and the mantissa.
func (f *Float) Bits() []uint8 {
	return f.bits.Bits()
}

// Exponent returns a copy of the exponent field.
func (f *Float) Exponent() []uint8 {
	return f.bits.Slice(expFrom, f.mantFrom())
}

// Mantissa returns a copy of the mantissa field.
func (f *Float) Mantissa() []uint8 {
	return f.bits.Slice(f.mantFrom(), f.bits.Len())
}

// Sign returns true for negative numbers, including negative zeros, infinities, and NaNs.
func (f *Float) Sign() bool {
	return f.bits.Get(signBit)
}

// IsPositive returns true if the sign bit is not set.
func (f *Float) IsPositive() bool {
	return !f.Sign()
}

// IsZero returns true for positive and negative zeros.
func (f *Float) IsZero() bool {
	return !f.bits.AnyOnes(expFrom, f.bits.Len())
}

// IsInf returns true for positive and negative infinities.
func (f *Float) IsInf() bool {
	return f.expAllOnes() && !f.mantNonZero()
}

// IsNaN returns true if f is not a number.
func (f *Float) IsNaN() bool {
	return f.expAllOnes() && f.mantNonZero()
}

// SetSign sets the sign bit. It does not change other bits.
func (f *Float) SetSign(negative bool) {
	f.bits.Set(signBit, negative)
}

// SetZero sets f to a zero with given sign.
func (f *Float) SetZero(negative bool) {
	f.bits.Fill(0, f.bits.Len(), false)
	f.SetSign(negative)
}

// SetInf sets f to an infinity with given sign.
func (f *Float) SetInf(negative bool) {
	f.SetSign(negative)
	f.bits.Fill(expFrom, f.mantFrom(), true)
	f.bits.Fill(f.mantFrom(), f.bits.Len(), false)
}

// SetNaN sets f to the canonical NaN: all ones in the exponent and only the first bit of the mantissa set.
func (f *Float) SetNaN(negative bool) {
	f.SetInf(negative)
	f.bits.Set(f.mantFrom(), true)
}

// SetMantissa replaces the mantissa field.
// The length of bits must be equal to the mantissa length.
func (f *Float) SetMantissa(bits []uint8) error {
	if err := checkBits(bits, f.mantLen, "mantissa"); err != nil {
		return err
	}
	f.bits.Copy(f.mantFrom(), bitarray.FromBits(bits), 0, len(bits))
	return nil
}

// SetExponent replaces the exponent field.
// The length of bits must be equal to the exponent length.
func (f *Float) SetExponent(bits []uint8) error {
	if err := checkBits(bits, f.expLen, "exponent"); err != nil {
		return err
	}
	f.bits.Copy(expFrom, bitarray.FromBits(bits), 0, len(bits))
	return nil
}

// Copy returns a deep copy of f.
func (f *Float) Copy() *Float {
	return &Float{
		mantLen: f.mantLen,
		expLen:  f.expLen,
		bits:    f.bits.Clone(),
	}
}

// Set copies the value of other into f. Both numbers must have the same lengths.
func (f *Float) Set(other *Float) error {
	if err := f.sameShape(other, "set"); err != nil {
		return err
	}
	f.bits.Copy(0, other.bits, 0, other.bits.Len())
	return nil
}

// SetCast makes f a copy of other, including mantissa and exponent lengths.
func (f *Float) SetCast(other *Float) {
	f.mantLen, f.expLen = other.mantLen, other.expLen
	f.bits = other.bits.Clone()
}

// SameShape returns true if f and other have the same mantissa and exponent lengths.
func (f *Float) SameShape(other *Float) bool {
	return f.mantLen == other.mantLen && f.expLen == other.expLen
}

func (f *Float) sameShape(other *Float, op string) error {
	if !f.SameShape(other) {
		return fmt.Errorf("%w: %s on (%d, %d) and (%d, %d)",
			ErrPrecisionMismatch, op, f.mantLen, f.expLen, other.mantLen, other.expLen)
	}
	return nil
}

func (f *Float) mantFrom() int {
	return expFrom + f.expLen
}

func (f *Float) expAllOnes() bool {
	return f.bits.AllOnes(expFrom, f.mantFrom())
}

func (f *Float) mantNonZero() bool {
	return f.bits.AnyOnes(f.mantFrom(), f.bits.Len())
}
