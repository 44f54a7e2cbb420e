package bind_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/bind"
)

func TestNumberAcceptsNumbersAndNumericStrings(t *testing.T) {
	cases := map[string]float64{
		`9.5`:    9.5,
		`"9.5"`:  9.5,
		`" 3 "`:  3,
		`0`:      0,
		`"-1e2"`: -100,
		`109.95`: 109.95,
	}
	for raw, want := range cases {
		var n bind.Number
		require.NoError(t, json.Unmarshal([]byte(raw), &n), raw)
		assert.Equal(t, want, n.Float64(), raw)
	}
}

func TestNumberRejectsOtherValues(t *testing.T) {
	for _, raw := range []string{`"abc"`, `""`, `true`, `"NaN"`, `"Inf"`, `[1]`, `{}`} {
		var n bind.Number
		assert.ErrorIs(t, json.Unmarshal([]byte(raw), &n), bind.ErrNotNumber, raw)
	}
}

func TestNumberInt(t *testing.T) {
	n, ok := bind.Number(3).Int()
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = bind.Number(3.5).Int()
	assert.False(t, ok)
}

func TestNumberSliceFromStrings(t *testing.T) {
	var ids []bind.Number
	require.NoError(t, json.Unmarshal([]byte(`["1", 2, "3"]`), &ids))
	assert.Equal(t, []bind.Number{1, 2, 3}, ids)
}
