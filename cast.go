// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"github.com/avdva/mpfloat/internal/bitarray"
)

// Cast changes mantissa and exponent lengths of f, rounding its value to nearest, ties to even.
// Numbers too large for the new exponent become infinities, too small ones become subnormals or zeros.
// Infinities and NaNs stay infinities and NaNs. Casting to the current lengths does not change f.
func (f *Float) Cast(mantLen, expLen int) error {
	if err := checkLengths(mantLen, expLen); err != nil {
		return err
	}
	if mantLen == f.mantLen && expLen == f.expLen {
		return nil
	}
	u := f.unpack()
	f.mantLen, f.expLen = mantLen, expLen
	f.bits = bitarray.New(mantLen + expLen + 1)
	f.pack(u)
	return nil
}

// CastTo returns a copy of f with new mantissa and exponent lengths.
func (f *Float) CastTo(mantLen, expLen int) (*Float, error) {
	z := f.Copy()
	if err := z.Cast(mantLen, expLen); err != nil {
		return nil, err
	}
	return z, nil
}
