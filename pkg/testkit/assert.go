package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertJSONBody compares expected and actual after decoding both, so key
// order and whitespace never matter.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", scenario.Name,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual),
	) {
		return
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", scenario.Name)
}

// AssertMocksAllCalled fails the test if any isMock=true step was never hit.
func AssertMocksAllCalled(t *testing.T, scenario *Scenario, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err, "[%s]", scenario.Name)
	}
}
