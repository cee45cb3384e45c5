package io

import (
	"errors"
	"io"
)

// Tape provides sequential byte I/O for the machine.
// It wraps an io.Reader for input and io.Writer for output.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Channel = (*Tape)(nil)

// flusher is implemented by buffered outputs, such as bufio.Writer.
type flusher interface {
	Flush() error
}

// Flush pushes any buffered output to the underlying writer.
func (tc *Tape) Flush() (err error) {
	fl, ok := tc.Output.(flusher)
	if ok {
		err = fl.Flush()
	}
	return
}

// Receive reads a single byte from the input stream.
// Buffered output is flushed first, so that prompts are visible
// before the read blocks.
func (tc *Tape) Receive() (value byte, err error) {
	if tc.Input == nil {
		err = ErrNoInput
		return
	}

	err = tc.Flush()
	if err != nil {
		return
	}

	br, ok := tc.Input.(io.ByteReader)
	if ok {
		value, err = br.ReadByte()
	} else {
		var one [1]byte
		var n int
		for n == 0 && err == nil {
			n, err = tc.Input.Read(one[:])
		}
		if n == 1 {
			err = nil
		}
		value = one[0]
	}

	if errors.Is(err, io.EOF) {
		value = 0
		err = ErrEndOfTape
	}

	return
}

// Send writes a byte to the output stream.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = tc.Output.Write([]byte{value})
	return
}
