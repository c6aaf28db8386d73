// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package bitarray implements a fixed-length, densely packed sequence of bits.
// Bit 0 is the most significant one: it is stored in the highest bit of the first word.
package bitarray

import (
	"math/big"
	"math/bits"
	"strings"
)

const wordBits = bits.UintSize

type word = uint

// Array is a fixed-length bit sequence. The zero value is an empty array.
// Arrays are values, but they share storage when copied; use Clone to get an independent copy.
type Array struct {
	n     int
	words []word
}

// New returns an array of n zero bits.
func New(n int) Array {
	if n < 0 {
		n = 0
	}
	return Array{n: n, words: make([]word, (n+wordBits-1)/wordBits)}
}

// FromBits returns an array containing given bits, where every nonzero item is a one.
func FromBits(b []uint8) Array {
	a := New(len(b))
	for i, v := range b {
		if v != 0 {
			a.Set(i, true)
		}
	}
	return a
}

// Len returns the number of bits in the array.
func (a Array) Len() int {
	return a.n
}

func pos(i int) (idx int, mask word) {
	return i / wordBits, 1 << (wordBits - 1 - i%wordBits)
}

// Get returns the i'th bit.
func (a Array) Get(i int) bool {
	idx, mask := pos(i)
	return a.words[idx]&mask != 0
}

// Set sets the i'th bit to v.
func (a Array) Set(i int, v bool) {
	idx, mask := pos(i)
	if v {
		a.words[idx] |= mask
	} else {
		a.words[idx] &^= mask
	}
}

// Fill sets all bits in [from, to) to v.
func (a Array) Fill(from, to int, v bool) {
	for i := from; i < to; i++ {
		a.Set(i, v)
	}
}

// AllOnes returns true if all bits in [from, to) are set.
// It returns true for an empty range.
func (a Array) AllOnes(from, to int) bool {
	for i := from; i < to; i++ {
		if !a.Get(i) {
			return false
		}
	}
	return true
}

// AnyOnes returns true if at least one bit in [from, to) is set.
func (a Array) AnyOnes(from, to int) bool {
	for i := from; i < to; i++ {
		if a.Get(i) {
			return true
		}
	}
	return false
}

// Int returns bits [from, to) as an unsigned integer, where the bit at 'from' is the most significant one.
func (a Array) Int(from, to int) *big.Int {
	z := new(big.Int)
	for i := from; i < to; i++ {
		if a.Get(i) {
			z.SetBit(z, to-1-i, 1)
		}
	}
	return z
}

// Uint64 is like Int, but for ranges of up to 64 bits.
func (a Array) Uint64(from, to int) uint64 {
	var result uint64
	for i := from; i < to; i++ {
		result <<= 1
		if a.Get(i) {
			result |= 1
		}
	}
	return result
}

// SetInt writes the lowest to-from bits of v into [from, to).
// Higher bits of v are ignored. v must not be negative.
func (a Array) SetInt(from, to int, v *big.Int) {
	for i := from; i < to; i++ {
		a.Set(i, v.Bit(to-1-i) != 0)
	}
}

// SetUint64 is like SetInt, but for ranges of up to 64 bits.
func (a Array) SetUint64(from, to int, v uint64) {
	for i := to - 1; i >= from; i-- {
		a.Set(i, v&1 != 0)
		v >>= 1
	}
}

// Copy copies bits [from, to) of src into a starting at dst.
func (a Array) Copy(dst int, src Array, from, to int) {
	for i := from; i < to; i++ {
		a.Set(dst+i-from, src.Get(i))
	}
}

// Clone returns an independent copy of the array.
func (a Array) Clone() Array {
	result := Array{n: a.n, words: make([]word, len(a.words))}
	copy(result.words, a.words)
	return result
}

// Equal returns true if both arrays have the same length and content.
func (a Array) Equal(other Array) bool {
	if a.n != other.n {
		return false
	}
	for i := range a.words {
		if a.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Bits returns the content as a slice of zeros and ones.
func (a Array) Bits() []uint8 {
	return a.Slice(0, a.n)
}

// Slice returns bits [from, to) as a slice of zeros and ones.
func (a Array) Slice(from, to int) []uint8 {
	result := make([]uint8, 0, to-from)
	for i := from; i < to; i++ {
		var b uint8
		if a.Get(i) {
			b = 1
		}
		result = append(result, b)
	}
	return result
}

// Bytes returns the content packed into bytes, most significant bit first.
// The last byte is padded with zeros.
func (a Array) Bytes() []byte {
	result := make([]byte, (a.n+7)/8)
	for i := 0; i < a.n; i++ {
		if a.Get(i) {
			result[i/8] |= 1 << (7 - i%8)
		}
	}
	return result
}

// FromBytes returns an array of n bits read from data, most significant bit first.
// ok is false if data is too short.
func FromBytes(data []byte, n int) (a Array, ok bool) {
	if n < 0 || len(data) < (n+7)/8 {
		return Array{}, false
	}
	a = New(n)
	for i := 0; i < n; i++ {
		a.Set(i, data[i/8]&(1<<(7-i%8)) != 0)
	}
	return a, true
}

// String returns the array as a string of '0' and '1'.
func (a Array) String() string {
	var b strings.Builder
	b.Grow(a.n)
	a.WriteBits(&b, 0, a.n)
	return b.String()
}

// WriteBits writes bits [from, to) into the builder as '0' and '1' symbols.
func (a Array) WriteBits(b *strings.Builder, from, to int) {
	for i := from; i < to; i++ {
		if a.Get(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
}
