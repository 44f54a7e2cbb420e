// Package graphql serves a graphql-go schema over HTTP.
//
//	schema, _ := graphql.NewSchema(rootQuery)
//	r.Post("/graphql", "graphql", graphql.Handler(schema))
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/pkg/response"
)

// NewSchema creates a read-only schema from the root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Execute runs req against schema with the caller's context, so resolvers
// see the request ID and logger.
func Execute(r *http.Request, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
}

// Handler accepts POST bodies of the form {"query": ..., "variables": ...}.
// Resolver errors are reported in the result with status 200; only an
// unreadable request is a 400.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid GraphQL request body")
			return
		}
		if req.Query == "" {
			response.Error(w, http.StatusBadRequest, "query is required")
			return
		}

		response.JSON(w, http.StatusOK, Execute(r, schema, req))
	}
}
