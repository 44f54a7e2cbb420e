package resource_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/resource"
)

var itoa = resource.TransformerFunc[int, string](strconv.Itoa)

func TestOneAndCollection(t *testing.T) {
	assert.Equal(t, "7", resource.One[int, string](itoa, 7))
	assert.Equal(t, []string{"1", "2"}, resource.Collection[int, string](itoa, []int{1, 2}))
}

func TestCollectionNilSerialisesAsArray(t *testing.T) {
	out, err := json.Marshal(resource.Collection[int, string](itoa, nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
