package cpu

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ezrec/um/bitpack"
	"github.com/ezrec/um/internal"
)

// Instruction word layout.
const (
	OP_WIDTH = 4  // Width of the opcode field.
	OP_LSB   = 28 // Opcode occupies bits 31..28.

	REG_WIDTH = 3 // Width of a register selector.
	REG_A_LSB = 6 // Register A occupies bits 8..6.
	REG_B_LSB = 3 // Register B occupies bits 5..3.
	REG_C_LSB = 0 // Register C occupies bits 2..0.

	LOADV_REG_LSB     = 25 // Load value target occupies bits 27..25.
	LOADV_VALUE_WIDTH = 25 // Load value immediate occupies bits 24..0.
	LOADV_VALUE_LSB   = 0
)

// CodeOp is an operation selector.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_CMOV   = CodeOp(0)  // cmov
	OP_SLOAD  = CodeOp(1)  // sload
	OP_SSTORE = CodeOp(2)  // sstore
	OP_ADD    = CodeOp(3)  // add
	OP_MUL    = CodeOp(4)  // mul
	OP_DIV    = CodeOp(5)  // div
	OP_NAND   = CodeOp(6)  // nand
	OP_HALT   = CodeOp(7)  // halt
	OP_MAP    = CodeOp(8)  // map
	OP_UNMAP  = CodeOp(9)  // unmap
	OP_OUT    = CodeOp(10) // out
	OP_IN     = CodeOp(11) // in
	OP_LOADP  = CodeOp(12) // loadp
	OP_LOADV  = CodeOp(13) // loadv
)

// Valid returns true if the operation is one of the fourteen defined.
func (op CodeOp) Valid() bool {
	return op >= OP_CMOV && op <= OP_LOADV
}

// opDefines yields the upper case name of every operation.
func opDefines(yield func(string, int) bool) {
	for op := OP_CMOV; op.Valid(); op++ {
		if !yield(strings.ToUpper(op.String()), int(op)) {
			return
		}
	}
}

// regDefines yields the name of every register.
func regDefines(yield func(string, int) bool) {
	for reg := REG_R0; reg <= REG_R7; reg++ {
		if !yield(reg.String(), int(reg)) {
			return
		}
	}
}

// Defines returns an iterator over the symbolic operation and register names.
func Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat[string, int](opDefines, regDefines)
}

// CodeReg is a register selector.
type CodeReg int

//go:generate go tool stringer -linecomment -type=CodeReg
const (
	REG_R0 = CodeReg(0) // r0
	REG_R1 = CodeReg(1) // r1
	REG_R2 = CodeReg(2) // r2
	REG_R3 = CodeReg(3) // r3
	REG_R4 = CodeReg(4) // r4
	REG_R5 = CodeReg(5) // r5
	REG_R6 = CodeReg(6) // r6
	REG_R7 = CodeReg(7) // r7
)

// Code is a single instruction word.
type Code uint32

// get extracts a field of the instruction word.
func (code Code) get(width, lsb uint) uint32 {
	value, err := bitpack.Getu(uint64(code), width, lsb)
	if err != nil {
		// Field positions are constant, and always inside the word.
		panic(err)
	}
	return uint32(value)
}

// put replaces a field of the instruction word.
func (code Code) put(width, lsb uint, value uint32) (out Code, err error) {
	word, err := bitpack.Newu(uint64(code), width, lsb, uint64(value))
	if err != nil {
		return
	}
	out = Code(word)
	return
}

// MakeCode creates a three register instruction.
func MakeCode(op CodeOp, a, b, c CodeReg) Code {
	return Code((uint32(op)&0xf)<<OP_LSB |
		(uint32(a)&7)<<REG_A_LSB |
		(uint32(b)&7)<<REG_B_LSB |
		(uint32(c)&7)<<REG_C_LSB)
}

// MakeCodeLoadValue creates a load value instruction.
// The value must fit in 25 bits.
func MakeCodeLoadValue(reg CodeReg, value uint32) (code Code, err error) {
	code = MakeCode(OP_LOADV, REG_R0, REG_R0, REG_R0)
	code, err = code.put(REG_WIDTH, LOADV_REG_LSB, uint32(reg)&7)
	if err != nil {
		return
	}
	code, err = code.put(LOADV_VALUE_WIDTH, LOADV_VALUE_LSB, value)
	if err != nil {
		err = ErrOpcodeImm
		return
	}
	return
}

// MakeCodeHalt creates a halt instruction.
func MakeCodeHalt() Code {
	return MakeCode(OP_HALT, REG_R0, REG_R0, REG_R0)
}

// MakeCodeOutput creates an instruction that writes register c to the output.
func MakeCodeOutput(c CodeReg) Code {
	return MakeCode(OP_OUT, REG_R0, REG_R0, c)
}

// MakeCodeInput creates an instruction that reads the input into register c.
func MakeCodeInput(c CodeReg) Code {
	return MakeCode(OP_IN, REG_R0, REG_R0, c)
}

// Op returns the operation selector, bits 31..28.
func (code Code) Op() CodeOp {
	return CodeOp(code.get(OP_WIDTH, OP_LSB))
}

// Registers decodes the three register form.
func (code Code) Registers() (a, b, c CodeReg) {
	a = CodeReg(code.get(REG_WIDTH, REG_A_LSB))
	b = CodeReg(code.get(REG_WIDTH, REG_B_LSB))
	c = CodeReg(code.get(REG_WIDTH, REG_C_LSB))
	return
}

// LoadValue decodes the load value form.
func (code Code) LoadValue() (reg CodeReg, value uint32) {
	reg = CodeReg(code.get(REG_WIDTH, LOADV_REG_LSB))
	value = code.get(LOADV_VALUE_WIDTH, LOADV_VALUE_LSB)
	return
}

// String returns a trace representation of this instruction.
func (code Code) String() (out string) {
	op := code.Op()

	switch op {
	case OP_LOADV:
		reg, value := code.LoadValue()
		out = fmt.Sprintf("%v %v %#x", op, reg, value)
	case OP_HALT:
		out = op.String()
	default:
		a, b, c := code.Registers()
		out = fmt.Sprintf("%v %v %v %v", op, a, b, c)
	}

	return
}
