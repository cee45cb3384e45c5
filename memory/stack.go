package memory

// Stack is a LIFO of released segment ids.
type Stack struct {
	Data []uint32
}

func (s *Stack) Push(id uint32) {
	s.Data = append(s.Data, id)
}

func (s *Stack) Pop() (id uint32, ok bool) {
	id, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Len() int {
	return len(s.Data)
}

func (s *Stack) Peek() (id uint32, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	s.Data = nil
}
