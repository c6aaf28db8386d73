// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	mu "github.com/avdva/mpfloat/internal/mathutil"
)

const (
	delim = '.'
)

type posError struct {
	pos int
	err string
}

func newPosError(err string, pos int) *posError {
	return &posError{err: err, pos: pos}
}

func (pe posError) Error() string {
	return pe.err + fmt.Sprintf(" at pos %d", pe.pos)
}

func addPosErrorOffset(err error, offset int) error {
	var pe *posError
	if !errors.As(err, &pe) { // try to locate error position.
		return err
	}
	pe.pos += offset
	return pe
}

// NewFromString returns a number with given lengths closest to the decimal number in s.
// See SetString for the supported formats.
func NewFromString(mantLen, expLen int, s string) (*Float, error) {
	f, err := New(mantLen, expLen)
	if err != nil {
		return nil, err
	}
	if err := f.SetString(s); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFromString is like NewFromString, but panics on error.
func MustFromString(mantLen, expLen int, s string) *Float {
	f, err := NewFromString(mantLen, expLen, s)
	if err != nil {
		panic(err)
	}
	return f
}

// SetString sets f to the value closest to the decimal number in s.
// The number may have a sign, a fractional part, and an exponent, like "-12.5e-3".
// It may be enclosed in quotes. "inf", "infinity", and "nan" are accepted in any case.
// The string is parsed exactly and rounded once, so that the result is correctly rounded for any lengths.
// f is not changed on error.
func (f *Float) SetString(s string) error {
	s, offset, neg := prepareString(s)
	if len(s) == 0 {
		return fmt.Errorf("empty input")
	}
	switch strings.ToLower(s) {
	case "inf", "infinity":
		f.SetInf(neg)
		return nil
	case "nan":
		f.SetNaN(neg)
		return nil
	}
	digits, e, err := doParse(s)
	if err != nil {
		// add what we've trimmed before and add +1 to the offset to start indices from 1.
		return fmt.Errorf("parsing failed: %w", addPosErrorOffset(err, offset+1))
	}
	f.setDecimal(neg, digits, int(e))
	return nil
}

// setDecimal sets f to (-1)^neg * digits * 10^e.
// digits has no leading zeros, an empty string is a zero.
func (f *Float) setDecimal(neg bool, digits string, e int) {
	if len(digits) == 0 {
		f.SetZero(neg)
		return
	}
	// the exponent of the leading decimal digit.
	lead := len(digits) + e - 1
	if lead > mu.DecimalDigitsForBits(f.bias()+1) {
		// above 2^(bias+1), which is larger than any finite number.
		f.SetInf(neg)
		return
	}
	if -(lead + 1) >= mu.DecimalDigitsForBits(f.bias()+f.mantLen) {
		// less than a half of the smallest subnormal.
		f.SetZero(neg)
		return
	}
	m, _ := new(big.Int).SetString(digits, 10)
	if e >= 0 {
		// d * 10^e = d * 5^e * 2^e
		m.Mul(m, mu.Pow5(e))
		f.round(neg, m, e, false)
		return
	}
	div := mu.Pow5(-e)
	shift := f.mantLen + guardBits + div.BitLen() - m.BitLen()
	if shift < 0 {
		shift = 0
	}
	m.Lsh(m, uint(shift))
	q, r := m.QuoRem(m, div, new(big.Int))
	f.round(neg, q, e-shift, r.Sign() != 0)
}

// doParse parses given decimal string.
// returns a string without leading and trailing zeros, and an exponent
func doParse(s string) (result string, e int32, err error) {
	result, delimPos, e, err := removeLeadingZeros(s)
	if err != nil {
		return "", 0, err
	}
	result, eFromDelim := removeTrailingZerosString(result, delimPos)
	return result, e + eFromDelim, nil
}

// prepareString cleans the string from ",-,+ symbols, and spaces.
func prepareString(s string) (prepared string, offset int, neg bool) {
	if len(s) == 0 {
		return "", 0, false
	}
	if s[0] == '"' {
		s = s[1:]
		offset++
	}
	if len(s) == 0 {
		return "", 0, false
	}
	if s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	if trimmed := strings.TrimLeftFunc(s, unicode.IsSpace); len(trimmed) != len(s) {
		offset += len(s) - len(trimmed)
		s = trimmed
	}
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if len(s) == 0 {
		return "", 0, false
	}
	if s[0] == '-' {
		neg = true
		offset++
		s = s[1:]
	} else if s[0] == '+' {
		offset++
		s = s[1:]
	}
	return s, offset, neg
}

func removeLeadingZeros(s string) (result string, delimPos int, e int32, err error) {
	var b strings.Builder
	delimPos, firstNonZeroPos := -1, -1
	hasDigits := false
outer:
	for i, r := range s {
		switch {
		case '0' <= r && r <= '9':
			hasDigits = true
			if b.Len() == 0 {
				if r == '0' { // trim leading zeros
					continue
				}
				firstNonZeroPos = i
			}
			b.WriteRune(r)
		case r == 'e' || r == 'E':
			if !hasDigits {
				return "", 0, 0, newPosError("missing digits before exponent", i)
			}
			parsed, err := strconv.ParseInt(s[i+1:], 10, 32)
			if err != nil {
				return "", 0, 0, newPosError("error parsing exponent: "+err.Error(), i+1)
			}
			e = int32(parsed)
			break outer
		case r == delim:
			if delimPos != -1 {
				return "", 0, 0, newPosError("unexpected delimeter", i)
			}
			delimPos = i
		default:
			return "", 0, 0, newPosError(fmt.Sprintf("unexpected symbol %q", r), i)
		}
	}
	if !hasDigits {
		return "", 0, 0, newPosError("no digits", 0)
	}
	if firstNonZeroPos == -1 { // a zero-only string
		return "", 0, 0, nil
	}

	result = b.String()

	// move delimPos to the beginning of the trimmed string
	if delimPos >= 0 {
		if delimPos < firstNonZeroPos {
			firstNonZeroPos--
		}
		delimPos -= firstNonZeroPos
	} else { // if there is no delim, add one at the end of the string 123 --> 123.
		delimPos = len(result)
	}

	return result, delimPos, e, nil
}

func removeTrailingZerosString(s string, delimPos int) (result string, e int32) {
	for {
		l := len(s)
		if l == 0 || s[l-1] != '0' {
			break
		}
		s = s[:l-1]
	}
	return s, int32(delimPos - len(s))
}
