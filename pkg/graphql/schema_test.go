package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/pkg/graphql"
)

func newSchema(t *testing.T) gql.Schema {
	t.Helper()
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"echo": &gql.Field{
				Type: gql.String,
				Args: gql.FieldConfigArgument{"word": &gql.ArgumentConfig{Type: gql.String}},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Args["word"], nil
				},
			},
		},
	})
	schema, err := graphql.NewSchema(query)
	require.NoError(t, err)
	return schema
}

func TestHandlerExecutesQuery(t *testing.T) {
	h := graphql.Handler(newSchema(t))
	body := `{"query":"query($w: String){ echo(word: $w) }","variables":{"w":"hello"}}`
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data struct {
			Echo string `json:"echo"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "hello", out.Data.Echo)
}

func TestHandlerRejectsBadBody(t *testing.T) {
	h := graphql.Handler(newSchema(t))

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerReportsQueryErrors(t *testing.T) {
	h := graphql.Handler(newSchema(t))
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ missing }"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}
