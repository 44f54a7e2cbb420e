// Package testkit provides a JSON-scenario-driven REST API testing framework.
//
// Each scenario is a JSON file that describes:
//   - The HTTP request to fire (method, URL, body file, headers)
//   - Expected HTTP status code
//   - Expected response body file (optional, for JSON diff assertion)
//   - Mock steps for outgoing HTTP calls made through pkg/http
//
// Scenario files live next to the *_test.go files that run them:
//
//	testdata/
//	  create_product.json        ← scenario
//	  create_product_req.json    ← request body
//	  create_product_res.json    ← expected response body
//
// Example _test.go:
//
//	func TestProductAPI(t *testing.T) {
//	    testkit.RunDirFresh(t, "testdata", func(t *testing.T) http.Handler {
//	        return newTestKernel(t)
//	    })
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scenario describes a single REST API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"` // relative to the scenario file
	Headers         map[string]string `json:"headers"`

	ResponseFileName string `json:"responseFileName"` // relative to the scenario file
	ExpectedCode     int    `json:"expectedCode"`

	// IsMockRequired fails any outgoing call that no mock step matches.
	IsMockRequired bool `json:"isMockRequired"`

	NetUtilMockStep []MockStep `json:"netUtilMockStep"`

	dir string
}

// MockStep describes one intercepted outgoing call. Only the "httprequest"
// method is understood; it intercepts pkg/http calls.
type MockStep struct {
	Method string `json:"method"`

	// IsMock false documents a real dependency: matching calls are sent to
	// the network instead of being answered from ReturnData.
	IsMock bool `json:"isMock"`

	// MatchURL is a prefix of the outgoing URL. Empty matches any URL.
	MatchURL string `json:"matchUrl"`

	ReturnData MockReturnData `json:"returnData"`
}

// MockReturnData is the synthetic response for a mock step.
type MockReturnData struct {
	// StatusCode defaults to 200.
	StatusCode int `json:"statusCode"`

	// Body is the base64-encoded response body. "" means empty.
	Body string `json:"body"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	for i, step := range s.NetUtilMockStep {
		if step.Method == "" {
			return fmt.Errorf("netUtilMockStep[%d].method is required", i)
		}
	}
	return nil
}

// RequestBodyPath returns the absolute path to the request body file, or ""
// when RequestFileName is not set.
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath returns the absolute path to the expected response file,
// or "" when ResponseFileName is not set.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// scenarioFiles lists the scenario files in dir: every *.json file that is
// not a _req.json or _res.json body fixture, in name order.
func scenarioFiles(dir string) ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var out []string
	for _, p := range entries {
		base := filepath.Base(p)
		if strings.HasSuffix(base, "_req.json") || strings.HasSuffix(base, "_res.json") {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)

	if len(out) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files found in %q", dir)
	}
	return out, nil
}

// LoadAllFromDir loads every scenario file in dir. Files that fail to parse
// are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	paths, err := scenarioFiles(dir)
	if err != nil {
		return nil, []error{err}
	}

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}
