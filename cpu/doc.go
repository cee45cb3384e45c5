// Package cpu implements the instruction codec and execution engine of the
// Universal Machine.
//
// The CPU consists of eight 32-bit registers (r0-r7), an instruction
// pointer, and the active program (segment 0) which it owns directly. All
// other segments are delegated to a memory.Memory. Each instruction word
// carries a 4-bit operation in bits 31..28; all operations but load value
// select three registers A, B and C from the low nine bits.
package cpu
