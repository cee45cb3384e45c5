package memory

import (
	"errors"

	"github.com/ezrec/um/translate"
)

var f = translate.From

var (
	ErrSegmentZero     = errors.New(f("segment 0 is not managed"))
	ErrSegmentUnmapped = errors.New(f("segment unmapped"))
	ErrSegmentBounds   = errors.New(f("offset out of bounds"))
)

// ErrSegment locates a failed segment access.
type ErrSegment struct {
	Id     uint32
	Offset uint32
	Err    error
}

func (err *ErrSegment) Error() string {
	return f("segment %d[%d] %v", err.Id, err.Offset, err.Err)
}

func (err *ErrSegment) Unwrap() error {
	return err.Err
}
