package suite

import (
	"errors"
	"maps"
	"strings"

	"go.starlark.net/starlark"

	"github.com/ezrec/um/cpu"
	"github.com/ezrec/um/internal"
)

// predeclared returns the names visible to a suite script.
func (st *Suite) predeclared() (dict starlark.StringDict) {
	dict = starlark.StringDict{}

	builtins := map[string]starlark.Value{
		"three_register": starlark.NewBuiltin("three_register", builtinThreeRegister),
		"loadval":        starlark.NewBuiltin("loadval", builtinLoadval),
		"halt":           starlark.NewBuiltin("halt", builtinHalt),
		"output":         starlark.NewBuiltin("output", builtinOutput),
		"input":          starlark.NewBuiltin("input", builtinInput),
		"test":           starlark.NewBuiltin("test", st.builtinTest),
	}

	defines := func(yield func(string, starlark.Value) bool) {
		for name, value := range cpu.Defines() {
			if !yield(name, starlark.MakeInt(value)) {
				return
			}
		}
	}

	for name, value := range internal.IterSeq2Sorted(internal.IterSeq2Concat[string, starlark.Value](defines, maps.All(builtins))) {
		dict[name] = value
	}

	return
}

func makeCode(code cpu.Code) starlark.Value {
	return starlark.MakeUint64(uint64(code))
}

func register(fn *starlark.Builtin, reg int) (cr cpu.CodeReg, err error) {
	if reg < 0 || reg > int(cpu.REG_R7) {
		err = errors.Join(ErrRegister, errors.New(f("%s: r%d", fn.Name(), reg)))
		return
	}
	cr = cpu.CodeReg(reg)
	return
}

func builtinThreeRegister(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var op, a, b, c int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "op", &op, "a", &a, "b", &b, "c", &c)
	if err != nil {
		return
	}

	// Values 14 and 15 are accepted, so that scripts may build illegal
	// instructions.
	if op < 0 || op > 15 {
		err = errors.Join(ErrOperation, errors.New(f("%s: %d", fn.Name(), op)))
		return
	}

	regs := [3]cpu.CodeReg{}
	for n, reg := range []int{a, b, c} {
		regs[n], err = register(fn, reg)
		if err != nil {
			return
		}
	}

	value = makeCode(cpu.MakeCode(cpu.CodeOp(op), regs[0], regs[1], regs[2]))
	return
}

func builtinLoadval(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var reg, val int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "r", &reg, "value", &val)
	if err != nil {
		return
	}

	cr, err := register(fn, reg)
	if err != nil {
		return
	}

	if val < 0 || uint64(val) > uint64(^uint32(0)) {
		err = errors.Join(cpu.ErrOpcodeImm, errors.New(f("%s: %d", fn.Name(), val)))
		return
	}

	code, err := cpu.MakeCodeLoadValue(cr, uint32(val))
	if err != nil {
		err = errors.Join(err, errors.New(f("%s: %d", fn.Name(), val)))
		return
	}

	value = makeCode(code)
	return
}

func builtinHalt(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackArgs(fn.Name(), args, kwargs)
	if err != nil {
		return
	}

	value = makeCode(cpu.MakeCodeHalt())
	return
}

func builtinOutput(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var reg int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "r", &reg)
	if err != nil {
		return
	}

	cr, err := register(fn, reg)
	if err != nil {
		return
	}

	value = makeCode(cpu.MakeCodeOutput(cr))
	return
}

func builtinInput(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var reg int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "r", &reg)
	if err != nil {
		return
	}

	cr, err := register(fn, reg)
	if err != nil {
		return
	}

	value = makeCode(cpu.MakeCodeInput(cr))
	return
}

// programWords converts an iterable of instruction words.
func programWords(fn *starlark.Builtin, program starlark.Value) (words []uint32, err error) {
	iter := starlark.Iterate(program)
	if iter == nil {
		err = errors.New(f("%s: program is not iterable: %s", fn.Name(), program.Type()))
		return
	}
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		num, ok := item.(starlark.Int)
		if !ok {
			err = errors.Join(ErrWord, errors.New(f("%s: %s", fn.Name(), item.Type())))
			return
		}
		word, ok := num.Uint64()
		if !ok || word > uint64(^uint32(0)) {
			err = errors.Join(ErrWord, errors.New(f("%s: %v", fn.Name(), num)))
			return
		}
		words = append(words, uint32(word))
	}

	return
}

func (st *Suite) builtinTest(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var name, input, output string
	var program starlark.Value
	err = starlark.UnpackArgs(fn.Name(), args, kwargs,
		"name", &name,
		"program", &program,
		"input?", &input,
		"output?", &output)
	if err != nil {
		return
	}

	if len(name) == 0 || strings.ContainsAny(name, `/\`) {
		err = &ErrTest{Name: name, Err: ErrTestName}
		return
	}

	if st.Find(name) != nil {
		err = &ErrTest{Name: name, Err: ErrTestDup}
		return
	}

	words, err := programWords(fn, program)
	if err != nil {
		err = &ErrTest{Name: name, Err: err}
		return
	}

	test := &Test{
		Name:   name,
		Input:  []byte(input),
		Output: []byte(output),
	}
	test.Rom.Data = words

	st.Tests = append(st.Tests, test)

	value = starlark.None
	return
}
