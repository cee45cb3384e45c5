package io

import (
	"errors"

	"github.com/ezrec/um/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrEndOfTape = errors.New(f("end of tape"))
	ErrNoInput   = errors.New(f("no tape input"))
	ErrNoOutput  = errors.New(f("no tape output"))

	// Image errors
	ErrRomAlignment = errors.New(f("image length is not a multiple of 4"))
)

// ErrRom indicates a failure to load a program image.
type ErrRom struct {
	Length int
	Err    error
}

func (err *ErrRom) Error() string {
	return f("rom (%d bytes) %v", err.Length, err.Err)
}

func (err *ErrRom) Unwrap() error {
	return err.Err
}
