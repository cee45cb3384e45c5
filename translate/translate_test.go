package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("segment 7", From("segment %d", 7))
	assert.Equal("plain", From("plain"))
}

func TestTo(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	err := To(buf, "***** Writing test '%s'.\n", "halt")
	assert.NoError(err)
	assert.Equal("***** Writing test 'halt'.\n", buf.String())
}
