// Package kernel assembles the HTTP handler: global middleware, the
// operational endpoints and the product API.
package kernel

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/schema"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/graphql"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// HTTPKernel owns the router and everything mounted on it.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the handler around products. source feeds
// POST /import_product/.
func NewHTTPKernel(products *services.ProductService, source services.Source) (*HTTPKernel, error) {
	view := resources.NewProductResource()
	gqlSchema, err := schema.New(products, view)
	if err != nil {
		return nil, err
	}

	r := router.New()

	// Outermost first: StripSlashes must run before chi matches a route.
	r.Use(chimw.StripSlashes)
	if config.TrustProxy() {
		r.Use(chimw.RealIP)
	}
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/graphql", "graphql", graphql.Handler(gqlSchema))

	routes.RegisterAPI(r, controllers.NewProductController(products, view, source))

	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Routes lists every mounted route, for `catalog route:list`.
func (k *HTTPKernel) Routes() []router.Route {
	return k.router.Routes()
}
