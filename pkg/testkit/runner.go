package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	cataloghttp "github.com/shashiranjanraj/catalog/pkg/http"
)

// Run executes the scenario in scenarioPath against handler.
//
// Lifecycle per scenario:
//  1. Read the request body from requestFileName (if set).
//  2. Install the mock transport on pkg/http's client.
//  3. Fire the request against handler using httptest.
//  4. Assert status code, then the response body against responseFileName.
//  5. Verify every isMock=true step was called and restore the transport.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s)
	})
}

// RunDir runs every scenario in dir as a subtest against one shared handler.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()
	RunDirFresh(t, dir, func(*testing.T) http.Handler { return handler })
}

// RunDirFresh runs every scenario in dir as a subtest, asking newHandler
// for a handler per scenario so each one starts from clean state.
func RunDirFresh(t *testing.T, dir string, newHandler func(t *testing.T) http.Handler) {
	t.Helper()

	paths, err := scenarioFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			t.Errorf("testkit: load %q: %v", path, err)
			continue
		}

		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, newHandler(t), s)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	var reqBody io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		reqBody = bytes.NewReader(data)
	}

	mt := NewMockTransport(s)
	original := cataloghttp.DefaultClient.Transport
	mt.fallback = original
	cataloghttp.DefaultClient.Transport = mt
	defer func() {
		cataloghttp.DefaultClient.Transport = original
	}()

	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
		} else {
			AssertJSONBody(t, s, expected, rec.Body.Bytes())
		}
	}

	AssertMocksAllCalled(t, s, mt)
}
