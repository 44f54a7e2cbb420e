package testkit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cataloghttp "github.com/shashiranjanraj/catalog/pkg/http"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

// testHandler powers the testkit self-tests. /upstream relays a call made
// through pkg/http so the mock transport is exercised end to end.
var testHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/health":
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	case "/upstream":
		resp, err := cataloghttp.Get("https://upstream.example.com/products/1").
			WithContext(r.Context()).
			Send()
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(resp.StatusCode)
		w.Write(resp.Raw) //nolint:errcheck
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`)) //nolint:errcheck
	}
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, testHandler, "testdata")
}

func TestLoadScenario(t *testing.T) {
	s, err := testkit.LoadScenario("testdata/upstream_proxy.json")
	require.NoError(t, err)

	assert.Equal(t, "Upstream proxy uses mocked call", s.Name)
	assert.Equal(t, "GET", s.RequestMethod)
	assert.Equal(t, 200, s.ExpectedCode)
	assert.True(t, s.IsMockRequired)
	require.Len(t, s.NetUtilMockStep, 1)

	step := s.NetUtilMockStep[0]
	assert.Equal(t, "httprequest", step.Method)
	assert.True(t, step.IsMock)
	assert.Equal(t, "https://upstream.example.com/", step.MatchURL)
	assert.NotEmpty(t, step.ReturnData.Body)
	assert.Contains(t, s.ResponseBodyPath(), "upstream_proxy_res.json")
}

func TestLoadAllFromDirSkipsBodyFixtures(t *testing.T) {
	scenarios, errs := testkit.LoadAllFromDir("testdata")
	assert.Empty(t, errs)
	assert.Len(t, scenarios, 2)
}

func TestMockTransport_URLMatching(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "mock transport test",
		IsMockRequired: true,
		ExpectedCode:   200,
		RequestURL:     "/anything",
		NetUtilMockStep: []testkit.MockStep{
			{
				Method:   "httprequest",
				IsMock:   true,
				MatchURL: "https://api.example.com/",
				ReturnData: testkit.MockReturnData{
					StatusCode: 201,
					Body:       "eyJvayI6dHJ1ZX0=", // {"ok":true}
				},
			},
		},
	}

	mt := testkit.NewMockTransport(s)

	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/users", nil)
	resp, err := mt.RoundTrip(req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, mt.Calls(0))
	assert.Empty(t, mt.AssertAllCalled())
}

func TestMockTransport_UnmatchedCallFails(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "unmatched mock",
		IsMockRequired: true,
		ExpectedCode:   200,
		RequestURL:     "/anything",
		NetUtilMockStep: []testkit.MockStep{
			{
				Method:     "httprequest",
				IsMock:     true,
				MatchURL:   "https://expected.com/",
				ReturnData: testkit.MockReturnData{StatusCode: 200},
			},
		},
	}

	mt := testkit.NewMockTransport(s)

	req := httptest.NewRequest(http.MethodGet, "https://unexpected.com/api", nil)
	_, err := mt.RoundTrip(req)

	assert.Error(t, err, "should fail on unmatched URL when isMockRequired=true")
	assert.Len(t, mt.AssertAllCalled(), 1)
}

func TestAssertJSONBody(t *testing.T) {
	s := &testkit.Scenario{Name: "json assert test", ExpectedCode: 200}

	expected := []byte(`{"title":"Backpack","price":109.95}`)
	actual := []byte(`{"price":  109.95, "title": "Backpack"}`)
	testkit.AssertJSONBody(t, s, expected, actual)
}
