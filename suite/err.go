package suite

import (
	"errors"

	"github.com/ezrec/um/translate"
)

var f = translate.From

var (
	ErrTestName     = errors.New(f("invalid test name"))
	ErrTestDup      = errors.New(f("duplicate test name"))
	ErrTestMissing  = errors.New(f("no test named"))
	ErrTestMismatch = errors.New(f("output mismatch"))
	ErrWord         = errors.New(f("program word out of range"))
	ErrRegister     = errors.New(f("register out of range"))
	ErrOperation    = errors.New(f("operation out of range"))
)

// ErrTest indicates the test that failed.
type ErrTest struct {
	Name string
	Err  error
}

func (err *ErrTest) Error() string {
	return f("test '%s': %v", err.Name, err.Err)
}

func (err *ErrTest) Unwrap() error {
	return err.Err
}
