package cpu

import (
	"errors"

	"github.com/ezrec/um/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("halted"))
	ErrIpBounds       = errors.New(f("ip beyond program"))
	ErrProgramBounds  = errors.New(f("offset beyond program"))
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrOutputRange    = errors.New(f("output exceeds one byte"))
	ErrChannelInvalid = errors.New(f("channel invalid"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrOpcodeImm    = errors.New(f("imm"))
	ErrOpcodeSload  = errors.New(f("sload"))
	ErrOpcodeSstore = errors.New(f("sstore"))
	ErrOpcodeDiv    = errors.New(f("div"))
	ErrOpcodeUnmap  = errors.New(f("unmap"))
	ErrOpcodeOut    = errors.New(f("out"))
	ErrOpcodeIn     = errors.New(f("in"))
	ErrOpcodeLoadp  = errors.New(f("loadp"))
)

// ErrOpcode marks the instruction that failed.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x %v", uint32(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
