// Package bitpack reads and writes bit fields inside 64-bit words.
//
// A field is described by its width in bits and the position of its least
// significant bit. Fields may not extend past bit 63.
package bitpack

import (
	"errors"

	"github.com/ezrec/um/translate"
)

var f = translate.From

var (
	ErrWidth    = errors.New(f("field exceeds 64 bits"))
	ErrOverflow = errors.New(f("value does not fit in field"))
)

// ErrField describes a field that could not be accessed.
type ErrField struct {
	Width uint
	Lsb   uint
	Err   error
}

func (err *ErrField) Error() string {
	return f("field %d@%d: %v", err.Width, err.Lsb, err.Err)
}

func (err *ErrField) Unwrap() error {
	return err.Err
}

// shl is a left shift where a shift of 64 clears the word.
func shl(word uint64, shift uint) uint64 {
	if shift >= 64 {
		return 0
	}
	return word << shift
}

// shr is a logical right shift where a shift of 64 clears the word.
func shr(word uint64, shift uint) uint64 {
	if shift >= 64 {
		return 0
	}
	return word >> shift
}

// sar is an arithmetic right shift where a shift of 64 propagates the sign.
func sar(word int64, shift uint) int64 {
	if shift >= 64 {
		shift = 63
	}
	return word >> shift
}

// mask returns width low bits set.
func mask(width uint) uint64 {
	return shr(^uint64(0), 64-width)
}

func check(width, lsb uint) (err error) {
	if width > 64 || lsb > 64-width {
		err = &ErrField{Width: width, Lsb: lsb, Err: ErrWidth}
	}
	return
}

// Fitsu returns true if n can be represented in width unsigned bits.
func Fitsu(n uint64, width uint) bool {
	switch {
	case width == 0:
		return false
	case width >= 64:
		return true
	}
	return n <= mask(width)
}

// Fitss returns true if n can be represented in width two's complement bits.
func Fitss(n int64, width uint) bool {
	switch {
	case width == 0:
		return false
	case width >= 64:
		return true
	}
	hi := int64(shl(1, width-1) - 1)
	return n >= -hi-1 && n <= hi
}

// Getu extracts the unsigned field of width bits at lsb.
func Getu(word uint64, width, lsb uint) (value uint64, err error) {
	err = check(width, lsb)
	if err != nil {
		return
	}

	value = shr(word, lsb) & mask(width)
	return
}

// Gets extracts the sign extended field of width bits at lsb.
func Gets(word uint64, width, lsb uint) (value int64, err error) {
	err = check(width, lsb)
	if err != nil || width == 0 {
		return
	}

	// Move the field to the top of the word, then shift back down.
	value = sar(int64(shl(word, 64-(width+lsb))), 64-width)
	return
}

// Newu returns word with the width bits at lsb replaced by value.
func Newu(word uint64, width, lsb uint, value uint64) (out uint64, err error) {
	err = check(width, lsb)
	if err != nil {
		return
	}

	if !Fitsu(value, width) {
		err = &ErrField{Width: width, Lsb: lsb, Err: ErrOverflow}
		return
	}

	m := shl(mask(width), lsb)
	out = (word & ^m) | (shl(value, lsb) & m)
	return
}

// News returns word with the width bits at lsb replaced by the two's
// complement encoding of value.
func News(word uint64, width, lsb uint, value int64) (out uint64, err error) {
	err = check(width, lsb)
	if err != nil {
		return
	}

	if !Fitss(value, width) {
		err = &ErrField{Width: width, Lsb: lsb, Err: ErrOverflow}
		return
	}

	return Newu(word, width, lsb, uint64(value)&mask(width))
}
