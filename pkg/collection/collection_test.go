package collection_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/collection"
)

func TestMapFilterReject(t *testing.T) {
	in := []int{1, 2, 3, 4}

	assert.Equal(t, []int{2, 4, 6, 8}, collection.Map(in, func(v int) int { return v * 2 }))
	assert.Equal(t, []int{2, 4}, collection.Filter(in, func(v int) bool { return v%2 == 0 }))
	assert.Equal(t, []int{1, 3}, collection.Reject(in, func(v int) bool { return v%2 == 0 }))
	assert.Empty(t, collection.Filter(in, func(int) bool { return false }))
}

func TestUniqueByKeepsFirst(t *testing.T) {
	titles := []string{"Shoe", "Hat", "SHOE", "hat", "Bag"}

	got := collection.UniqueBy(titles, strings.ToLower)
	assert.Equal(t, []string{"Shoe", "Hat", "Bag"}, got)
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, collection.Chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Nil(t, collection.Chunk([]int{1}, 0))
	assert.Nil(t, collection.Chunk([]int{}, 3))
}

func TestSet(t *testing.T) {
	set := collection.Set([]string{"a", "b", "a"})
	assert.Len(t, set, 2)
	assert.Contains(t, set, "a")
}
