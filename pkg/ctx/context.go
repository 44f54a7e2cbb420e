// Package ctx provides a request context for HTTP handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, binding and the JSON
// envelope:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id := c.Param("id")
//	    c.Success(view)
//	}
//
//	// Register with ctx.Wrap:
//	r.Get("/product_list/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/orm"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// InvalidInputMessage is sent with 400 responses caused by a bad payload.
const InvalidInputMessage = "Something is wrong! Please check your input"

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // written status code (0 = not written yet)
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/product_list/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt parses a query value as an int. Missing or malformed values
// yield def.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// Body reads and returns the raw request body bytes.
func (c *Context) Body() ([]byte, error) {
	return io.ReadAll(c.R.Body)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation. On failure
// it writes a 400 response and returns false.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ShouldBindJSON decodes the JSON body into dest without validating it and
// without writing a response. Type mismatches come back in the error map.
func (c *Context) ShouldBindJSON(dest any) (map[string]string, error) {
	return bind.Decode(c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// Status writes just the HTTP status code with an empty body.
func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// JSON writes v as JSON with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Respond sends an envelope with a message and optional data.
func (c *Context) Respond(code int, message string, data any) {
	c.status = code
	response.Respond(c.W, code, message, data)
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.Respond(http.StatusOK, "", data)
}

// Created sends a 201 JSON envelope.
func (c *Context) Created(message string, data any) {
	c.Respond(http.StatusCreated, message, data)
}

// Paginated sends a 200 envelope whose data holds items and pagination.
func (c *Context) Paginated(items any, p orm.Pagination) {
	c.status = http.StatusOK
	response.Paginated(c.W, items, p)
}

// NoContent sends a bare 204.
func (c *Context) NoContent() {
	c.Status(http.StatusNoContent)
}

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusBadRequest
	response.ValidationError(c.W, InvalidInputMessage, errs)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }
