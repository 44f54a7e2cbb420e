// Package schema defines the read-only GraphQL API over products.
//
//	query {
//	  products(search: "bag", page: 1, page_size: 10) {
//	    items { product_id title price foreign_currency }
//	    total page page_size last_page
//	  }
//	  product(id: 3) { title price }
//	}
package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	pkggraphql "github.com/shashiranjanraj/catalog/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"product_id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"foreign_currency": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"category":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"image":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"rating_rate":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"rating_count":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"items":     &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType)))},
		"total":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"page":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"page_size": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"last_page": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

// New builds the schema backed by service and rendered with view.
func New(service *services.ProductService, view *resources.ProductResource) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(productPageType),
				Args: graphql.FieldConfigArgument{
					"search":    &graphql.ArgumentConfig{Type: graphql.String},
					"page":      &graphql.ArgumentConfig{Type: graphql.Int},
					"page_size": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					search, _ := p.Args["search"].(string)
					page, _ := p.Args["page"].(int)
					size, _ := p.Args["page_size"].(int)

					result, err := service.List(p.Context, services.ListParams{Search: search, Page: page, PageSize: size})
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"items":     collection.Map(view.Collection(result.Items), toMap),
						"total":     int(result.Pagination.Total),
						"page":      result.Pagination.Page,
						"page_size": result.Pagination.PageSize,
						"last_page": result.Pagination.LastPage,
					}, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id < 1 {
						return nil, services.ErrNotFound
					}
					product, err := service.Retrieve(p.Context, uint(id))
					if err != nil {
						return nil, err
					}
					return toMap(view.One(product)), nil
				},
			},
		},
	})
	return pkggraphql.NewSchema(query)
}

func toMap(v resources.ProductView) map[string]interface{} {
	return map[string]interface{}{
		"product_id":       int(v.ProductID),
		"title":            v.Title,
		"price":            v.Price,
		"foreign_currency": v.ForeignCurrency,
		"description":      v.Description,
		"category":         v.Category,
		"image":            v.Image,
		"rating_rate":      v.RatingRate,
		"rating_count":     v.RatingCount,
	}
}
