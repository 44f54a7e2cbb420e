// Package response writes the JSON envelope shared by every endpoint:
//
//	{"status": 201, "message": "...", "data": {...}, "errors": {...}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/orm"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Page is the data section of a paginated response.
type Page struct {
	Items      interface{}    `json:"items"`
	Pagination orm.Pagination `json:"pagination"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Respond writes an envelope carrying a message and optional data.
func Respond(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Envelope{Status: status, Message: message, Data: data})
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	Respond(w, http.StatusOK, "", data)
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	Respond(w, http.StatusCreated, message, data)
}

// NoContent sends a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: status, Message: message})
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, message string, errs map[string]string) {
	JSON(w, http.StatusBadRequest, Envelope{
		Status:  http.StatusBadRequest,
		Message: message,
		Errors:  errs,
	})
}

// Paginated sends a 200 response with items and pagination metadata.
func Paginated(w http.ResponseWriter, items interface{}, pagination orm.Pagination) {
	Success(w, Page{Items: items, Pagination: pagination})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found"
	}
	Error(w, http.StatusNotFound, message)
}
