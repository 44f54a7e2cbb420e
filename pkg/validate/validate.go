// Package validate provides struct-tag validation for request payloads.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must be present and not blank
//	nullable            if empty, skip all remaining rules for this field
//	url                 valid absolute http/https URL
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gte=N               number >= N
//	lte=N               number <= N
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//
// Pointer fields express presence. A nil pointer is "not supplied"; a non-nil
// pointer is validated against the value it points to, so `required` on a
// *float64 accepts an explicit 0.
//
// Example:
//
//	type ProductInput struct {
//	    Title *string  `json:"title" validate:"required,max=255"`
//	    Price *float64 `json:"price" validate:"required"`
//	    Image *string  `json:"image" validate:"required,url,max=200"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// ─── Public API ───────────────────────────────────────────────────────────────

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	return run(v, false)
}

// Partial validates only the fields that were supplied: nil pointer fields
// are skipped entirely. Used for partial updates.
func Partial(v interface{}) map[string]string {
	return run(v, true)
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func run(v interface{}, partial bool) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		value := rv.Field(i)
		if partial && value.Kind() == reflect.Ptr && value.IsNil() {
			continue
		}

		name := jsonFieldName(field)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	if key == "required" {
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	}

	// Every other rule looks through the pointer; an absent value has
	// nothing to check.
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	raw := fmt.Sprintf("%v", v.Interface())

	switch key {
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}

	case "min":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(runeLen(raw)) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(runeLen(raw)) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gte":
		if toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if toFloat(v) > mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		low, high := mustParseFloat(lo), mustParseFloat(hi)
		if isNumericKind(v) {
			if f := toFloat(v); f < low || f > high {
				return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
			}
		} else if l := float64(runeLen(raw)); l < low || l > high {
			return fmt.Sprintf("The %s must be between %s and %s characters.", field, lo, hi)
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		// A supplied number or bool counts as present even when zero.
		elem := v.Elem()
		if elem.Kind() == reflect.String || elem.Kind() == reflect.Slice || elem.Kind() == reflect.Map {
			return isEmpty(elem)
		}
		return false
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
	return f
}

func runeLen(s string) int { return len([]rune(s)) }

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

// multiValue lists rules whose parameter may itself contain commas.
var multiValue = []string{"in=", "between="}

// splitRules splits a tag on commas and glues the extra values of in= and
// between= back onto their rule:
// "required,in=a,b,c,max=10" → ["required", "in=a,b,c", "max=10"].
func splitRules(tag string) []string {
	var rules []string
	inParam := false

	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if inParam && !isRuleName(tok) {
			rules[len(rules)-1] += "," + tok
			continue
		}

		inParam = false
		for _, pfx := range multiValue {
			if strings.HasPrefix(tok, pfx) {
				inParam = true
				break
			}
		}
		rules = append(rules, tok)
	}
	return rules
}

var ruleNames = map[string]bool{
	"required": true, "nullable": true, "url": true, "min": true, "max": true,
	"gte": true, "lte": true, "between": true, "in": true,
}

func isRuleName(tok string) bool {
	key, _, _ := strings.Cut(tok, "=")
	return ruleNames[key]
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
