package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())

	s.Push(7)
	assert.False(s.Empty())
	assert.Equal(1, s.Len())
	assert.Equal(uint32(7), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(3)
	s.Push(9)

	id, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint32(9), id)
	assert.Equal(1, s.Len())

	id, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint32(3), id)
	assert.True(s.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	id, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint32(0), id)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, ok := s.Peek()
	assert.False(ok)

	s.Push(3)
	s.Push(9)

	id, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint32(9), id)
	assert.Equal(2, s.Len())
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(1)
	s.Push(2)

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, s.Len())
}
