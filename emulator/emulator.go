// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"log"

	"github.com/ezrec/um/cpu"
	"github.com/ezrec/um/io"
	"github.com/ezrec/um/memory"
)

// Emulator state. CPU + segment memory + IO channels.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Rom  io.Rom  // Program image, loaded as segment 0 on reset.
	Tape io.Tape // Tape IO channel.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(memory.NewMemory()),
	}

	emu.Cpu.Input = &emu.Tape
	emu.Cpu.Output = &emu.Tape

	return
}

// Close the emulator, flushing any pending output.
func (emu *Emulator) Close() (err error) {
	err = emu.Tape.Flush()
	emu.Cpu.Memory.Free()

	return
}

// Reset the machine, and load the ROM image as the active program.
func (emu *Emulator) Reset() (err error) {
	if emu.Rom.Data == nil {
		err = ErrNoProgram
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Memory.Verbose = emu.Verbose

	emu.Cpu.Reset(emu.Rom.Data)

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip)
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted {
		done = true
		return
	}

	ip := emu.Ip()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted
	return
}

// Run the machine until it halts or faults.
func (emu *Emulator) Run() (err error) {
	defer func() {
		ferr := emu.Tape.Flush()
		if err == nil {
			err = ferr
		}
	}()

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Ticks())
		for id, words := range emu.Cpu.Memory.Segments() {
			log.Printf("emulator: segment %d, %d words", id, len(words))
		}
	}

	return
}
