package suite

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/um/cpu"
	"github.com/ezrec/um/io"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	st, err := Default()
	require.NoError(t, err)

	names := []string{
		"halt", "halt-verbose", "add", "print-six", "output-halt",
		"loadval-output", "add-full", "mul-test", "div-test", "nand-test",
		"input-output", "cmov-zero", "cmov-nonzero", "map-unmap",
		"store-load", "loadprog",
	}
	for _, name := range names {
		assert.NotNil(st.Find(name), name)
	}

	for _, test := range st.Tests {
		assert.NoError(test.Check(), test.Name)
	}
}

func TestSuite_ParseDefault(t *testing.T) {
	assert := assert.New(t)

	st := &Suite{Verbose: true}
	require.NoError(t, st.ParseDefault())
	assert.True(st.Verbose)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(len(def.Tests), len(st.Tests))
	assert.NotNil(st.Find("loadprog"))

	// A second evaluation collides with the first.
	err = st.ParseDefault()
	assert.ErrorContains(err, DEFAULT_SCRIPT)
	assert.ErrorContains(err, "duplicate test name")
}

func TestDefault_Output(t *testing.T) {
	assert := assert.New(t)

	st, err := Default()
	require.NoError(t, err)

	table := map[string]string{
		"halt":         "",
		"halt-verbose": "",
		"print-six":    "6",
		"add-full":     "=",
		"mul-test":     "*",
		"div-test":     "7",
		"input-output": "z",
		"cmov-zero":    "A",
		"cmov-nonzero": "B",
		"store-load":   "X",
		"loadprog":     "**",
		"input-eof":    "Y",
		"map-reuse":    "13",
		"countdown":    "987654321\n",
	}

	for name, expected := range table {
		test := st.Find(name)
		if !assert.NotNil(test, name) {
			continue
		}
		output, err := test.Run()
		assert.NoError(err, name)
		assert.Equal(expected, string(output), name)
	}
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	script := `
test("one", [loadval(r1, 65), output(r1), halt()], output = "A")
test("two", [input(r2), output(r2), halt()], input = "q", output = "q")
test("raw", [0x70000000])
`
	st, err := Parse("parse.star", strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, st.Tests, 3)

	one := st.Tests[0]
	assert.Equal("one", one.Name)
	code, _ := cpu.MakeCodeLoadValue(cpu.REG_R1, 65)
	assert.Equal([]uint32{
		uint32(code),
		uint32(cpu.MakeCodeOutput(cpu.REG_R1)),
		uint32(cpu.MakeCodeHalt()),
	}, one.Rom.Data)
	assert.Empty(one.Input)
	assert.Equal([]byte("A"), one.Output)

	two := st.Tests[1]
	assert.Equal([]byte("q"), two.Input)
	assert.NoError(two.Check())

	raw := st.Tests[2]
	assert.Equal([]uint32{0x70000000}, raw.Rom.Data)
	assert.NoError(raw.Check())
}

func TestParse_Defines(t *testing.T) {
	assert := assert.New(t)

	script := `
test("defs", [
    three_register(CMOV, r0, r1, r2),
    three_register(LOADV, r7, r7, r7),
    three_register(15, r0, r0, r0),
])
`
	st, err := Parse("defines.star", strings.NewReader(script))
	require.NoError(t, err)

	assert.Equal([]uint32{
		uint32(cpu.MakeCode(cpu.OP_CMOV, cpu.REG_R0, cpu.REG_R1, cpu.REG_R2)),
		uint32(cpu.MakeCode(cpu.OP_LOADV, cpu.REG_R7, cpu.REG_R7, cpu.REG_R7)),
		0xf0000000,
	}, st.Tests[0].Rom.Data)

	_, err = st.Tests[0].Run()
	assert.ErrorIs(err, cpu.ErrOpcodeDecode)
}

func TestParse_Errors(t *testing.T) {
	assert := assert.New(t)

	table := map[string]string{
		"syntax":    `test("x", [halt()]`,
		"duplicate": `test("x", [halt()]); test("x", [halt()])`,
		"name":      `test("a/b", [halt()])`,
		"empty":     `test("", [halt()])`,
		"register":  `output(8)`,
		"operation": `three_register(16, r0, r0, r0)`,
		"immediate": `loadval(r0, 0x2000000)`,
		"negative":  `loadval(r0, -1)`,
		"word":      `test("x", [0x100000000])`,
		"type":      `test("x", ["halt"])`,
		"iterable":  `test("x", 7)`,
		"unknown":   `assemble("x")`,
	}

	for name, script := range table {
		_, err := Parse(name+".star", strings.NewReader(script))
		assert.Error(err, name)
	}

	_, err := Parse("dup.star", strings.NewReader(table["duplicate"]))
	assert.Contains(err.Error(), "duplicate test name")
}

func TestSuite_Select(t *testing.T) {
	assert := assert.New(t)

	st, err := Default()
	require.NoError(t, err)

	tests, err := st.Select()
	assert.NoError(err)
	assert.Equal(st.Tests, tests)

	tests, err = st.Select("loadprog", "halt")
	assert.NoError(err)
	assert.Len(tests, 2)
	assert.Equal("loadprog", tests[0].Name)
	assert.Equal("halt", tests[1].Name)

	tests, err = st.Select("halt", "no-such-test")
	assert.ErrorIs(err, ErrTestMissing)
	assert.Len(tests, 1)

	var terr *ErrTest
	assert.True(errors.As(err, &terr))
	assert.Equal("no-such-test", terr.Name)
}

func TestTest_Check(t *testing.T) {
	assert := assert.New(t)

	test := &Test{
		Name:   "wrong",
		Output: []byte("nope"),
	}
	test.Rom.Data = []uint32{uint32(cpu.MakeCodeHalt())}

	err := test.Check()
	assert.ErrorIs(err, ErrTestMismatch)

	test.Rom.Data = []uint32{}
	err = test.Check()
	assert.ErrorIs(err, cpu.ErrIpBounds)
}

func TestTest_Write(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	st, err := Default()
	require.NoError(t, err)

	test := st.Find("input-output")
	require.NotNil(t, test)

	// Stale files from an earlier run are removed.
	halt := st.Find("halt")
	require.NotNil(t, halt)
	for _, ext := range []string{EXT_INPUT, EXT_OUTPUT} {
		assert.NoError(os.WriteFile(filepath.Join(dir, "halt"+ext), []byte("stale"), 0o644))
	}

	assert.NoError(test.Write(dir))
	assert.NoError(halt.Write(dir))

	data, err := os.ReadFile(filepath.Join(dir, "input-output.0"))
	assert.NoError(err)
	assert.Equal("z", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "input-output.1"))
	assert.NoError(err)
	assert.Equal("z", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "input-output.um"))
	assert.NoError(err)
	assert.Equal(test.Rom.Bytes(), data)

	_, err = os.Stat(filepath.Join(dir, "halt.0"))
	assert.ErrorIs(err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(dir, "halt.1"))
	assert.ErrorIs(err, os.ErrNotExist)

	data, err = os.ReadFile(filepath.Join(dir, "halt.um"))
	assert.NoError(err)
	assert.Equal([]byte{0x70, 0x00, 0x00, 0x00}, data)
}

func TestTest_WriteCompressed(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	st, err := Default()
	require.NoError(t, err)

	test := st.Find("hello")
	require.NotNil(t, test)

	assert.NoError(test.WriteCompressed(dir))

	data, err := os.ReadFile(filepath.Join(dir, "hello.um"))
	require.NoError(t, err)
	assert.True(bytes.HasPrefix(data, io.ZSTD_MAGIC))

	rom := &io.Rom{}
	assert.NoError(rom.Unmarshal(bytes.NewReader(data)))
	assert.Equal(test.Rom.Data, rom.Data)

	err = test.Write(filepath.Join(dir, "missing"))
	var terr *ErrTest
	assert.True(errors.As(err, &terr))
	assert.Equal("hello", terr.Name)
}
