// Copyright 2020 Aleksandr Demakin. All rights reserved.

package mpfloat

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/avdva/mpfloat/internal/bitarray"
)

type jsonFloat struct {
	MantissaLength int    `json:"mantissa_length"`
	ExponentLength int    `json:"exponent_length"`
	Bits           string `json:"bits,omitempty"`
	Value          string `json:"value,omitempty"`
}

// MarshalJSON marshals f as an object with both lengths, the bit array, and the decimal value, like
// `{"mantissa_length":4,"exponent_length":2,"bits":"0101101","value":"3.6"}`.
func (f *Float) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonFloat{
		MantissaLength: f.mantLen,
		ExponentLength: f.expLen,
		Bits:           f.BitString(),
		Value:          f.String(),
	})
}

// UnmarshalJSON unmarshals an object or a string into f.
// For objects, the bit array is used if present, otherwise the value is parsed.
// A string is parsed as a decimal number, keeping current lengths of f.
func (f *Float) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty json")
	}
	switch data[0] {
	case '{':
		var d jsonFloat
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		value, err := New(d.MantissaLength, d.ExponentLength)
		if err != nil {
			return err
		}
		if len(d.Bits) > 0 {
			bits, err := parseBits(d.Bits)
			if err != nil {
				return err
			}
			if value, err = NewFromBits(d.MantissaLength, d.ExponentLength, bits); err != nil {
				return err
			}
		} else if err := value.SetString(d.Value); err != nil {
			return err
		}
		*f = *value
	default:
		if err := checkLengths(f.mantLen, f.expLen); err != nil {
			return fmt.Errorf("cannot unmarshal a number into an uninitialized Float: %w", err)
		}
		if err := f.SetString(string(data)); err != nil {
			return err
		}
	}
	return nil
}

// parseBits converts a string of '0' and '1' into bits.
func parseBits(s string) ([]uint8, error) {
	bits := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("%w: %w", ErrInvalidBit, newPosError(fmt.Sprintf("unexpected symbol %q", s[i]), i+1))
		}
	}
	return bits, nil
}

// NewFromBitString returns a number with given lengths from a string of '0' and '1', as returned by BitString.
func NewFromBitString(mantLen, expLen int, s string) (*Float, error) {
	bits, err := parseBits(s)
	if err != nil {
		return nil, err
	}
	return NewFromBits(mantLen, expLen, bits)
}

var (
	_ msgpack.CustomEncoder = (*Float)(nil)
	_ msgpack.CustomDecoder = (*Float)(nil)
)

// EncodeMsgpack encodes f as an array of the mantissa length, the exponent length, and the packed bit array.
func (f *Float) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(f.mantLen)); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(f.expLen)); err != nil {
		return err
	}
	return enc.EncodeBytes(f.bits.Bytes())
}

// DecodeMsgpack decodes a number encoded with EncodeMsgpack.
func (f *Float) DecodeMsgpack(dec *msgpack.Decoder) error {
	l, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if l != 3 {
		return fmt.Errorf("msgpack: expected an array of 3 items, got %d", l)
	}
	mantLen, err := dec.DecodeInt()
	if err != nil {
		return err
	}
	expLen, err := dec.DecodeInt()
	if err != nil {
		return err
	}
	data, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if err := checkLengths(mantLen, expLen); err != nil {
		return err
	}
	bits, ok := bitarray.FromBytes(data, mantLen+expLen+1)
	if !ok {
		return fmt.Errorf("%w: %d bytes for %d bits", ErrLengthMismatch, len(data), mantLen+expLen+1)
	}
	f.mantLen, f.expLen, f.bits = mantLen, expLen, bits
	return nil
}
