// Package suite builds Universal Machine test programs from starlark scripts.
//
// A script composes instruction words with the predeclared builtins, and
// registers each program with test(). Every test is written as a triple:
// the program image (name.um), its input (name.0) and its expected
// output (name.1).
package suite

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/um/emulator"
	umio "github.com/ezrec/um/io"
)

//go:embed default.star
var defaultScript string

// DEFAULT_SCRIPT names the built-in suite in diagnostics.
const DEFAULT_SCRIPT = "default.star"

const (
	EXT_PROGRAM = ".um" // Program image.
	EXT_INPUT   = ".0"  // Tape input.
	EXT_OUTPUT  = ".1"  // Expected tape output.
)

// Test is a single test program.
type Test struct {
	Name   string   // Name of the test, used as the file stem.
	Input  []byte   // Tape input, if any.
	Output []byte   // Expected tape output, if any.
	Rom    umio.Rom // Program image.
}

// Suite is an ordered collection of tests.
type Suite struct {
	Verbose bool    // Set to enable verbose logging.
	Tests   []*Test // Tests, in script order.
}

// Parse evaluates a suite script.
func Parse(filename string, src io.Reader) (st *Suite, err error) {
	st = &Suite{}
	err = st.Parse(filename, src)
	if err != nil {
		st = nil
	}
	return
}

// Default returns the built-in suite.
func Default() (st *Suite, err error) {
	st = &Suite{}
	err = st.ParseDefault()
	if err != nil {
		st = nil
	}
	return
}

// ParseDefault evaluates the built-in suite, appending its tests to the suite.
func (st *Suite) ParseDefault() (err error) {
	return st.Parse(DEFAULT_SCRIPT, bytes.NewBufferString(defaultScript))
}

// Parse evaluates a suite script, appending its tests to the suite.
func (st *Suite) Parse(filename string, src io.Reader) (err error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(thread *starlark.Thread, msg string) {
			if st.Verbose {
				log.Printf("%v: %v", thread.Name, msg)
			}
		},
	}
	opts := syntax.FileOptions{}

	_, err = starlark.ExecFileOptions(&opts, thread, filename, data, st.predeclared())
	if err != nil {
		var everr *starlark.EvalError
		if errors.As(err, &everr) {
			err = errors.New(everr.Backtrace())
		}
		return
	}

	if st.Verbose {
		log.Printf("suite: %v: %d tests", filename, len(st.Tests))
	}

	return
}

// Find returns the named test, or nil.
func (st *Suite) Find(name string) *Test {
	for _, test := range st.Tests {
		if test.Name == name {
			return test
		}
	}

	return nil
}

// Select returns the named tests, in the order given.
// With no names, all tests are returned.
func (st *Suite) Select(names ...string) (tests []*Test, err error) {
	if len(names) == 0 {
		tests = st.Tests
		return
	}

	var errs []error
	for _, name := range names {
		test := st.Find(name)
		if test == nil {
			errs = append(errs, &ErrTest{Name: name, Err: ErrTestMissing})
			continue
		}
		tests = append(tests, test)
	}

	err = errors.Join(errs...)
	return
}

// Run executes the test program, returning the tape output.
func (test *Test) Run() (output []byte, err error) {
	emu := emulator.NewEmulator()
	defer emu.Close()

	buffer := &bytes.Buffer{}
	emu.Rom.Data = test.Rom.Data
	emu.Tape.Input = bytes.NewReader(test.Input)
	emu.Tape.Output = buffer

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()
	output = buffer.Bytes()

	return
}

// Check runs the test program, and compares its output with the expected.
func (test *Test) Check() (err error) {
	output, err := test.Run()
	if err != nil {
		err = &ErrTest{Name: test.Name, Err: err}
		return
	}

	if !bytes.Equal(output, test.Output) {
		err = &ErrTest{Name: test.Name, Err: errors.Join(ErrTestMismatch, errors.New(f("got %q, expected %q", output, test.Output)))}
		return
	}

	return
}

// Write writes the test triple into dir.
func (test *Test) Write(dir string) (err error) {
	return test.write(dir, false)
}

// WriteCompressed writes the test triple into dir, with a zstd program image.
func (test *Test) WriteCompressed(dir string) (err error) {
	return test.write(dir, true)
}

func (test *Test) write(dir string, compressed bool) (err error) {
	defer func() {
		if err != nil {
			err = &ErrTest{Name: test.Name, Err: err}
		}
	}()

	stem := filepath.Join(dir, test.Name)

	ouf, err := os.Create(stem + EXT_PROGRAM)
	if err != nil {
		return
	}

	if compressed {
		err = test.Rom.MarshalCompressed(ouf)
	} else {
		err = test.Rom.Marshal(ouf)
	}
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	if err != nil {
		return
	}

	err = writeOrRemove(stem+EXT_INPUT, test.Input)
	if err != nil {
		return
	}

	err = writeOrRemove(stem+EXT_OUTPUT, test.Output)
	return
}

// writeOrRemove writes contents to path, or removes path when there
// are no contents.
func writeOrRemove(path string, contents []byte) (err error) {
	if len(contents) == 0 {
		err = os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		return
	}

	err = os.WriteFile(path, contents, 0o644)
	return
}
