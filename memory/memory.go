// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory manages the mapped segments of the Universal Machine.
//
// Segment 0, the active program, belongs to the CPU and is never handled
// here. Every other segment is a fixed length run of 32-bit words, created
// zero filled by Map and released by Unmap. Released ids are reused most
// recently freed first.
package memory

import (
	"iter"
	"log"
	"slices"

	"github.com/ezrec/um/bitpack"
)

const (
	BITMAP_INITIAL = 128 // Initial capacity of the mapped bitmap, in bits.
)

// Memory is the segment manager.
type Memory struct {
	Verbose bool // Set to enable verbose logging.

	next     uint32     // Next never-issued segment id.
	free     Stack      // Released ids.
	mapped   []uint64   // Bitmap of live ids.
	segments [][]uint32 // Segment storage, indexed by id. Slot 0 is unused.
}

// NewMemory creates an empty segment manager.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	mem.Free()

	return
}

// Free releases every segment, returning the manager to its initial state.
func (mem *Memory) Free() {
	if mem.Verbose && mem.segments != nil {
		log.Printf("memory: free %d segments", mem.Mapped())
	}

	mem.next = 1
	mem.free.Reset()
	mem.mapped = make([]uint64, BITMAP_INITIAL/64)
	mem.segments = [][]uint32{nil}
}

// capacity of the bitmap, in ids.
func (mem *Memory) capacity() uint32 {
	return uint32(len(mem.mapped) * 64)
}

// grow the bitmap to hold at least size ids.
func (mem *Memory) grow(size uint64) {
	words := (size + 63) / 64
	if words > uint64(len(mem.mapped)) {
		mem.mapped = append(mem.mapped, make([]uint64, words-uint64(len(mem.mapped)))...)
	}
}

// bit returns the mapped bit of id.
func (mem *Memory) bit(id uint32) bool {
	value, err := bitpack.Getu(mem.mapped[id/64], 1, uint(id%64))
	if err != nil {
		panic(err)
	}
	return value == 1
}

// setBit updates the mapped bit of id.
func (mem *Memory) setBit(id uint32, set bool) {
	var value uint64
	if set {
		value = 1
	}
	word, err := bitpack.Newu(mem.mapped[id/64], 1, uint(id%64), value)
	if err != nil {
		panic(err)
	}
	mem.mapped[id/64] = word
}

// IsMapped returns true if id currently designates a live segment.
func (mem *Memory) IsMapped(id uint32) bool {
	return id < mem.next && id < mem.capacity() && mem.bit(id)
}

// Mapped returns the number of live segments.
func (mem *Memory) Mapped() int {
	return int(mem.next-1) - mem.free.Len()
}

// Map creates a zero filled segment of size words, returning its id.
func (mem *Memory) Map(size uint32) (id uint32) {
	segment := make([]uint32, size)

	id, ok := mem.free.Pop()
	if ok {
		mem.segments[id] = segment
	} else {
		id = mem.next
		mem.next++
		mem.segments = append(mem.segments, segment)
	}

	if id >= mem.capacity() {
		mem.grow(uint64(id) * 2)
	}
	mem.setBit(id, true)

	if mem.Verbose {
		log.Printf("memory: map %d words as segment %d", size, id)
	}

	return
}

// check validates that id is a live, managed segment.
func (mem *Memory) check(id uint32) (err error) {
	switch {
	case id == 0:
		err = &ErrSegment{Id: id, Err: ErrSegmentZero}
	case !mem.IsMapped(id):
		err = &ErrSegment{Id: id, Err: ErrSegmentUnmapped}
	}
	return
}

// checkOffset validates that offset lies inside the live segment id.
func (mem *Memory) checkOffset(id uint32, offset uint32) (err error) {
	err = mem.check(id)
	if err != nil {
		return
	}

	if uint64(offset) >= uint64(len(mem.segments[id])) {
		err = &ErrSegment{Id: id, Offset: offset, Err: ErrSegmentBounds}
	}
	return
}

// Unmap releases segment id, making it available for reuse.
func (mem *Memory) Unmap(id uint32) (err error) {
	err = mem.check(id)
	if err != nil {
		return
	}

	mem.segments[id] = nil
	mem.setBit(id, false)
	mem.free.Push(id)

	if mem.Verbose {
		log.Printf("memory: unmap segment %d", id)
	}

	return
}

// Len returns the length in words of segment id.
func (mem *Memory) Len(id uint32) (size uint32, err error) {
	err = mem.check(id)
	if err != nil {
		return
	}

	size = uint32(len(mem.segments[id]))
	return
}

// Get returns the word at offset in segment id.
func (mem *Memory) Get(id uint32, offset uint32) (value uint32, err error) {
	err = mem.checkOffset(id, offset)
	if err != nil {
		return
	}

	value = mem.segments[id][offset]
	return
}

// Set stores value at offset in segment id.
func (mem *Memory) Set(id uint32, offset uint32, value uint32) (err error) {
	err = mem.checkOffset(id, offset)
	if err != nil {
		return
	}

	mem.segments[id][offset] = value
	return
}

// Duplicate returns an independent copy of segment id.
// The segment itself stays mapped and unchanged.
func (mem *Memory) Duplicate(id uint32) (words []uint32, err error) {
	err = mem.check(id)
	if err != nil {
		return
	}

	words = slices.Clone(mem.segments[id])
	if words == nil {
		words = []uint32{}
	}
	return
}

// Segments iterates over the live segments in id order.
func (mem *Memory) Segments() iter.Seq2[uint32, []uint32] {
	return func(yield func(id uint32, words []uint32) bool) {
		for id := uint32(1); id < mem.next; id++ {
			if !mem.bit(id) {
				continue
			}
			if !yield(id, mem.segments[id]) {
				return
			}
		}
	}
}
