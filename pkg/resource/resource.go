// Package resource maps models to the shapes the API exposes.
//
// Define a Transformer per model and apply it to one value or a slice:
//
//	view := resource.One(productResource, product)
//	views := resource.Collection(productResource, products)
package resource

import "github.com/shashiranjanraj/catalog/pkg/collection"

// Transformer converts a model M into its public view V.
type Transformer[M, V any] interface {
	Transform(M) V
}

// TransformerFunc adapts a plain function to Transformer.
type TransformerFunc[M, V any] func(M) V

func (f TransformerFunc[M, V]) Transform(m M) V { return f(m) }

// One transforms a single model.
func One[M, V any](t Transformer[M, V], m M) V {
	return t.Transform(m)
}

// Collection transforms every model in items. A nil slice becomes an empty
// one so it serialises as [].
func Collection[M, V any](t Transformer[M, V], items []M) []V {
	if items == nil {
		return []V{}
	}
	return collection.Map(items, t.Transform)
}
