// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ezrec/um/io"
	"github.com/ezrec/um/memory"
)

// Channel is an I/O channel interface.
type Channel io.Channel

const (
	INPUT_EOF      = uint32(0xffffffff) // Loaded by input at end of stream.
	OUTPUT_MAX     = uint32(0xff)       // Largest value accepted by output.
	REGISTER_COUNT = 8                  // Size of the register bank.
)

// Cpu is the simulation context for the Universal Machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // Segments other than the active program.
	Input  Channel        // Byte input.
	Output Channel        // Byte output.

	Ip       uint32                 // Current instruction pointer.
	Register [REGISTER_COUNT]uint32 // Register bank.
	Program  []uint32               // Active program, segment 0.
	Halted   bool                   // Set once a halt executes.
	Fault    error                  // Set once an instruction fails.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU attached to a segment manager.
func NewCpu(mem *memory.Memory) (cpu *Cpu) {
	if mem == nil {
		mem = memory.NewMemory()
	}

	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"ip",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"prog",
		"segs",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "ip":
			strval = fmt.Sprintf("%04X_%04X", cpu.Ip>>16, cpu.Ip&0xffff)
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7":
			val := cpu.Register[byte(reg[1]-'0')]
			strval = fmt.Sprintf("%04X_%04X", val>>16, val&0xffff)
		case "prog":
			strval = fmt.Sprintf("%d words", len(cpu.Program))
		case "segs":
			strval = fmt.Sprintf("%d mapped", cpu.Memory.Mapped())
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
// - Clears the registers and instruction pointer.
// - Releases all mapped segments.
// - Zeros statistics counters.
// - Installs a copy of program as segment 0.
func (cpu *Cpu) Reset(program []uint32) {
	if cpu.Verbose {
		log.Printf("cpu: reset, %d word program", len(program))
	}

	clear(cpu.Register[:])
	cpu.Ip = 0
	cpu.Halted = false
	cpu.Fault = nil
	cpu.Ticks = 0

	cpu.Memory.Free()

	cpu.Program = slices.Clone(program)
}

// FetchCode fetches the instruction at the instruction pointer.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if uint64(cpu.Ip) >= uint64(len(cpu.Program)) {
		err = ErrIpBounds
		return
	}

	code = Code(cpu.Program[cpu.Ip])
	return
}

// Tick executes a single CPU instruction cycle.
// A failed cycle is fatal: every later tick returns the same error
// until the CPU is reset.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Fault != nil {
		return cpu.Fault
	}

	if cpu.Halted {
		return ErrHalted
	}

	defer func() {
		if err != nil {
			cpu.Fault = err
		}
	}()

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%08x: %v", cpu.Ip, code)
	}

	next_ip := cpu.Ip + 1

	reg := &cpu.Register

	a, b, c := code.Registers()

	switch code.Op() {
	case OP_CMOV:
		if reg[c] != 0 {
			reg[a] = reg[b]
		}
	case OP_SLOAD:
		var value uint32
		if reg[b] == 0 {
			value, err = cpu.programGet(reg[c])
		} else {
			value, err = cpu.Memory.Get(reg[b], reg[c])
		}
		if err != nil {
			err = errors.Join(ErrOpcodeSload, err)
			return
		}
		reg[a] = value
	case OP_SSTORE:
		if reg[a] == 0 {
			err = cpu.programSet(reg[b], reg[c])
		} else {
			err = cpu.Memory.Set(reg[a], reg[b], reg[c])
		}
		if err != nil {
			err = errors.Join(ErrOpcodeSstore, err)
			return
		}
	case OP_ADD:
		reg[a] = reg[b] + reg[c]
	case OP_MUL:
		reg[a] = reg[b] * reg[c]
	case OP_DIV:
		if reg[c] == 0 {
			err = errors.Join(ErrOpcodeDiv, ErrDivideByZero)
			return
		}
		reg[a] = reg[b] / reg[c]
	case OP_NAND:
		reg[a] = ^(reg[b] & reg[c])
	case OP_HALT:
		cpu.Halted = true
		if cpu.Verbose {
			log.Printf("cpu: halt after %d ticks", cpu.Ticks+1)
		}
	case OP_MAP:
		reg[b] = cpu.Memory.Map(reg[c])
	case OP_UNMAP:
		err = cpu.Memory.Unmap(reg[c])
		if err != nil {
			err = errors.Join(ErrOpcodeUnmap, err)
			return
		}
	case OP_OUT:
		if reg[c] > OUTPUT_MAX {
			err = errors.Join(ErrOpcodeOut, ErrOutputRange)
			return
		}
		if cpu.Output == nil {
			err = errors.Join(ErrOpcodeOut, ErrChannelInvalid)
			return
		}
		err = cpu.Output.Send(byte(reg[c]))
		if err != nil {
			err = errors.Join(ErrOpcodeOut, err)
			return
		}
	case OP_IN:
		if cpu.Input == nil {
			err = errors.Join(ErrOpcodeIn, ErrChannelInvalid)
			return
		}
		var value byte
		value, err = cpu.Input.Receive()
		switch {
		case err == nil:
			reg[c] = uint32(value)
		case errors.Is(err, io.ErrEndOfTape):
			err = nil
			reg[c] = INPUT_EOF
		default:
			err = errors.Join(ErrOpcodeIn, err)
			return
		}
	case OP_LOADP:
		if reg[b] != 0 {
			var program []uint32
			program, err = cpu.Memory.Duplicate(reg[b])
			if err != nil {
				err = errors.Join(ErrOpcodeLoadp, err)
				return
			}
			if cpu.Verbose {
				log.Printf("cpu: load program from segment %d, %d words", reg[b], len(program))
			}
			cpu.Program = program
		}
		next_ip = reg[c]
	case OP_LOADV:
		target, value := code.LoadValue()
		reg[target] = value
	default:
		err = ErrOpcodeDecode
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}

// programGet reads a word of the active program.
func (cpu *Cpu) programGet(offset uint32) (value uint32, err error) {
	if uint64(offset) >= uint64(len(cpu.Program)) {
		err = &memory.ErrSegment{Id: 0, Offset: offset, Err: ErrProgramBounds}
		return
	}

	value = cpu.Program[offset]
	return
}

// programSet writes a word of the active program.
func (cpu *Cpu) programSet(offset uint32, value uint32) (err error) {
	if uint64(offset) >= uint64(len(cpu.Program)) {
		err = &memory.ErrSegment{Id: 0, Offset: offset, Err: ErrProgramBounds}
		return
	}

	cpu.Program[offset] = value
	return
}
