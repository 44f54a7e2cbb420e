package testkit

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport is an http.RoundTripper that answers outgoing requests from
// a scenario's "httprequest" steps instead of the network.
//
//	mt := testkit.NewMockTransport(scenario)
//	http.DefaultClient.Transport = mt
//	defer http.ResetTransport()
type MockTransport struct {
	mu       sync.Mutex
	steps    []httpMockEntry
	require  bool
	fallback http.RoundTripper // used by isMock=false steps
}

type httpMockEntry struct {
	step      MockStep
	callCount int
}

// NewMockTransport builds a MockTransport from the "httprequest" steps in s.
func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.IsMockRequired, fallback: http.DefaultTransport}
	for _, step := range s.NetUtilMockStep {
		if step.Method != "httprequest" {
			continue
		}
		mt.steps = append(mt.steps, httpMockEntry{step: step})
	}
	return mt
}

// RoundTrip answers req from the first step whose URL prefix matches.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	var matched *httpMockEntry
	for i := range mt.steps {
		if urlMatches(req.URL.String(), mt.steps[i].step.MatchURL) {
			matched = &mt.steps[i]
			matched.callCount++
			break
		}
	}
	mt.mu.Unlock()

	switch {
	case matched != nil && matched.step.IsMock:
		return buildHTTPResponse(req, matched.step.ReturnData)
	case matched != nil:
		return mt.fallback.RoundTrip(req)
	case mt.require:
		return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call to %s: no matching mock step", req.URL)
	default:
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}
}

// AssertAllCalled returns one error per isMock=true step that was never hit.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.steps {
		if e.step.IsMock && e.callCount == 0 {
			errs = append(errs, fmt.Errorf(
				"testkit: mock step %q (matchUrl=%q) was never called",
				e.step.Method, e.step.MatchURL,
			))
		}
	}
	return errs
}

// Calls reports how many requests the step at index i answered.
func (mt *MockTransport) Calls(i int) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if i < 0 || i >= len(mt.steps) {
		return 0
	}
	return mt.steps[i].callCount
}

func urlMatches(candidate, pattern string) bool {
	return pattern == "" || strings.HasPrefix(candidate, pattern)
}

// buildHTTPResponse creates a synthetic response; the body is base64 decoded.
func buildHTTPResponse(req *http.Request, rd MockReturnData) (*http.Response, error) {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	var body []byte
	if rd.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(rd.Body)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(rd.Body)
			if err != nil {
				return nil, fmt.Errorf("testkit: base64 decode mock body: %w", err)
			}
		}
		body = decoded
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode:    code,
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
