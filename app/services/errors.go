package services

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Domain errors. The controller maps each of them to a status code; the
// messages are the ones clients see.
var (
	ErrValidationFailed    = errors.New("Something is wrong! Please check your input")
	ErrDuplicateTitle      = errors.New("Product with this title already exists")
	ErrMissingIdentifier   = errors.New("Product id is required")
	ErrNotFound            = errors.New("Product not found")
	ErrInvalidInput        = errors.New("Please provide valid list of product ids")
	ErrUpstreamUnavailable = errors.New("Failed to fetch data from external API")
)

// ValidationError carries per-field messages. It matches ErrValidationFailed
// under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// isDuplicateKey recognises a unique constraint violation, translated by
// GORM or raw from the driver.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
