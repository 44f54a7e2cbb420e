package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupJoinsPrefixAndNamesRoutes(t *testing.T) {
	r := router.New()
	api := r.Group("/api/")
	api.Get("/products/{id}", "products.show", ok)
	r.Post("products", "products.store", ok)

	path, found := r.Path("products.show")
	require.True(t, found)
	assert.Equal(t, "/api/products/{id}", path)

	url, err := r.URL("products.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/7", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.Route{Method: http.MethodGet, Path: "/api/products/{id}", Name: "products.show"}, routes[0])
	assert.Equal(t, "/products", routes[1].Path)
}

func TestGroupMiddlewareRunsInOrder(t *testing.T) {
	var trail []string
	mark := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	r.Group("/v1", mark("group")).Get("/ping", "ping", ok, mark("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"group", "route"}, trail)
}

func TestNotFoundAndMethodNotAllowedUseEnvelope(t *testing.T) {
	r := router.New()
	r.Get("/ping", "ping", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
