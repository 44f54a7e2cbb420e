package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// ProductController exposes the product service over HTTP.
type ProductController struct {
	service *services.ProductService
	view    *resources.ProductResource
	source  services.Source
}

// NewProductController builds the controller. source is used by Import.
func NewProductController(service *services.ProductService, view *resources.ProductResource, source services.Source) *ProductController {
	return &ProductController{service: service, view: view, source: source}
}

// Index handles GET /product_list/?page=&page_size=&search=
func (pc *ProductController) Index(c *ctx.Context) {
	page, err := pc.service.List(c.Context(), services.ListParams{
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	})
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.Paginated(pc.view.Collection(page.Items), page.Pagination)
}

// Show handles GET /product_list/{id}/
func (pc *ProductController) Show(c *ctx.Context) {
	id := parseID(c.Param("id"))
	if id == 0 {
		pc.fail(c, services.ErrNotFound)
		return
	}

	product, err := pc.service.Retrieve(c.Context(), id)
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.Success(pc.view.One(product))
}

// Store handles POST /create_update_delete_product/
func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !pc.bind(c, &in) {
		return
	}

	product, err := pc.service.Create(c.Context(), in)
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.Created("Product created successfully", product)
}

// Update handles PUT /create_update_delete_product/?product_id={id}
func (pc *ProductController) Update(c *ctx.Context) {
	id := parseID(c.Query("product_id"))
	if id == 0 {
		pc.fail(c, services.ErrMissingIdentifier)
		return
	}

	var in services.ProductInput
	if !pc.bind(c, &in) {
		return
	}

	product, err := pc.service.Update(c.Context(), id, in)
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.Respond(http.StatusOK, "Product data updated successfully", product)
}

// Destroy handles DELETE /create_update_delete_product/?product_id={id}
func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.service.Delete(c.Context(), parseID(c.Query("product_id"))); err != nil {
		pc.fail(c, err)
		return
	}
	c.NoContent()
}

// BulkDestroy handles DELETE /product_bulk_delete/ with {"product_ids": [...]}.
func (pc *ProductController) BulkDestroy(c *ctx.Context) {
	var body struct {
		ProductIDs json.RawMessage `json:"product_ids"`
	}
	if errs, err := c.ShouldBindJSON(&body); err != nil || len(errs) > 0 {
		pc.fail(c, services.ErrInvalidInput)
		return
	}

	var raw []bind.Number
	if len(body.ProductIDs) == 0 || json.Unmarshal(body.ProductIDs, &raw) != nil {
		pc.fail(c, services.ErrInvalidInput)
		return
	}
	ids, ok := productIDs(raw)
	if !ok {
		pc.fail(c, services.ErrInvalidInput)
		return
	}

	if err := pc.service.BulkDelete(c.Context(), ids); err != nil {
		pc.fail(c, err)
		return
	}
	c.NoContent()
}

// Import handles POST /import_product/
func (pc *ProductController) Import(c *ctx.Context) {
	result, err := pc.service.Import(c.Context(), pc.source)
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.Respond(http.StatusOK, result.Message(), result)
}

// bind decodes the body into in. Only a body that is not a JSON object is
// answered here; field-level problems are left to the service so they are
// reported after its duplicate and existence checks.
func (pc *ProductController) bind(c *ctx.Context, in *services.ProductInput) bool {
	errs, err := c.ShouldBindJSON(in)
	if err != nil {
		c.ValidationError(map[string]string{"body": err.Error()})
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// fail maps a service error onto the response.
func (pc *ProductController) fail(c *ctx.Context, err error) {
	var invalid *services.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.ValidationError(invalid.Fields)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(services.ErrNotFound.Error())
	case errors.Is(err, services.ErrDuplicateTitle):
		c.Error(http.StatusBadRequest, services.ErrDuplicateTitle.Error())
	case errors.Is(err, services.ErrMissingIdentifier):
		c.Error(http.StatusBadRequest, services.ErrMissingIdentifier.Error())
	case errors.Is(err, services.ErrInvalidInput):
		c.Error(http.StatusBadRequest, services.ErrInvalidInput.Error())
	case errors.Is(err, services.ErrUpstreamUnavailable):
		logger.WithCtx(c.Context()).Warn("import source unavailable", "error", err)
		c.Error(http.StatusBadRequest, services.ErrUpstreamUnavailable.Error())
	default:
		logger.WithCtx(c.Context()).Error("product request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// productIDs accepts whole, non-negative ids given as numbers or numeric
// strings.
func productIDs(raw []bind.Number) ([]uint, bool) {
	ids := make([]uint, 0, len(raw))
	for _, n := range raw {
		id, ok := n.Int()
		if !ok || id < 0 {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}

// parseID reads a positive integer id. Anything else is 0.
func parseID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
