package bind

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotNumber is returned when a value is neither a JSON number nor a
// string holding one.
var ErrNotNumber = errors.New("bind: not a number")

// Number decodes from a JSON number or from a numeric string, so "9.5" and
// 9.5 bind to the same value.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrNotNumber
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrNotNumber
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 { return float64(n) }

// Int returns n as an int when it has no fractional part.
func (n Number) Int() (int, bool) {
	f := float64(n)
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}
