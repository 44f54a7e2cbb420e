// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// ErrBodyTooLarge is returned when the body exceeds MAX_BODY_BYTES.
var ErrBodyTooLarge = errors.New("bind: request body too large")

// Decode reads r.Body as JSON into dest without validating it. An empty body
// leaves dest untouched. JSON values of the wrong type for a field are
// reported in errs keyed by the field's JSON name; err is reserved for
// bodies that are not JSON at all or too large.
func Decode(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	limit := int64(config.MaxBodyBytes())
	if limit <= 0 {
		limit = 4 << 20
	}
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return nil, nil
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, maxErr.Limit)
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return map[string]string{
				typeErr.Field: fmt.Sprintf("The %s field must be of type %s.", typeErr.Field, jsonKind(typeErr.Type.Kind().String())),
			}, nil
		default:
			return nil, fmt.Errorf("bind: invalid JSON: %w", err)
		}
	}
	return nil, nil
}

// JSON decodes r.Body into dest and runs validate.Struct on the result.
// Returns (errs, nil) on type or validation failures and (nil, err) when the
// body is malformed or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	errs, err = Decode(r, dest)
	if err != nil || validate.HasErrors(errs) {
		return errs, err
	}

	if errs = validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

func jsonKind(goKind string) string {
	switch goKind {
	case "float32", "float64", "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return "number"
	case "slice", "array":
		return "array"
	case "map", "struct":
		return "object"
	case "bool":
		return "boolean"
	default:
		return goKind
	}
}
