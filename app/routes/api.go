package routes

import (
	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// RegisterAPI mounts the product endpoints. Trailing slashes are optional;
// the kernel strips them before routing.
func RegisterAPI(r *router.Router, products *controllers.ProductController) {
	r.Get("/product_list", "products.index", ctx.Wrap(products.Index))
	r.Get("/product_list/{id}", "products.show", ctx.Wrap(products.Show))

	r.Post("/create_update_delete_product", "products.store", ctx.Wrap(products.Store))
	r.Put("/create_update_delete_product", "products.update", ctx.Wrap(products.Update))
	r.Delete("/create_update_delete_product", "products.destroy", ctx.Wrap(products.Destroy))

	r.Delete("/product_bulk_delete", "products.bulk_destroy", ctx.Wrap(products.BulkDestroy))
	r.Post("/import_product", "products.import", ctx.Wrap(products.Import))
}
