package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	var count int
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"r2": 2, "r0": 0, "r1": 1}

	var keys []string
	var values []int
	for k, v := range IterSeq2Sorted(maps.All(m)) {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal([]string{"r0", "r1", "r2"}, keys)
	assert.Equal([]int{0, 1, 2}, values)
}
