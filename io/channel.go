// Package io provides the byte channels and program image loader of the
// Universal Machine emulator.
package io

// Channel defines the interface for the byte I/O channels of the machine.
type Channel interface {
	// Receive reads the next byte from the channel.
	// ErrEndOfTape is returned once the input is exhausted.
	Receive() (value byte, err error)
	// Send writes a single byte to the channel.
	Send(value byte) error
}
