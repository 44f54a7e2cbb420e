package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/orm"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// ProductInput is a create or update payload. A nil field was not supplied.
//
// Numeric fields accept numbers or numeric strings. A field whose JSON value
// cannot be coerced is left nil and remembered; Create and Update report it
// only after their duplicate and existence checks.
type ProductInput struct {
	Title       *string  `json:"title" validate:"required,max=255"`
	Price       *float64 `json:"price" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Category    *string  `json:"category" validate:"required,max=255"`
	Image       *string  `json:"image" validate:"required,url,max=200"`
	RatingRate  *float64 `json:"rating_rate" validate:"required"`
	RatingCount *int     `json:"rating_count" validate:"required"`

	malformed map[string]string
}

func (in *ProductInput) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*in = ProductInput{}
	in.Title = in.text(fields, "title")
	in.Price = in.number(fields, "price")
	in.Description = in.text(fields, "description")
	in.Category = in.text(fields, "category")
	in.Image = in.text(fields, "image")
	in.RatingRate = in.number(fields, "rating_rate")
	in.RatingCount = in.integer(fields, "rating_count")
	return nil
}

func (in *ProductInput) reject(field, format string) {
	if in.malformed == nil {
		in.malformed = make(map[string]string)
	}
	in.malformed[field] = fmt.Sprintf(format, field)
}

func present(fields map[string]json.RawMessage, field string) (json.RawMessage, bool) {
	raw, ok := fields[field]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, false
	}
	return raw, true
}

func (in *ProductInput) text(fields map[string]json.RawMessage, field string) *string {
	raw, ok := present(fields, field)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		in.reject(field, "The %s field must be a string.")
		return nil
	}
	return &s
}

func (in *ProductInput) number(fields map[string]json.RawMessage, field string) *float64 {
	raw, ok := present(fields, field)
	if !ok {
		return nil
	}
	var n bind.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		in.reject(field, "The %s field must be a number.")
		return nil
	}
	f := n.Float64()
	return &f
}

func (in *ProductInput) integer(fields map[string]json.RawMessage, field string) *int {
	raw, ok := present(fields, field)
	if !ok {
		return nil
	}
	var n bind.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		in.reject(field, "The %s field must be an integer.")
		return nil
	}
	i, ok := n.Int()
	if !ok {
		in.reject(field, "The %s field must be an integer.")
		return nil
	}
	return &i
}

// check runs the field rules and folds in the decode failures. Only
// supplied fields are checked when partial is set.
func (in *ProductInput) check(partial bool) error {
	var errs map[string]string
	if partial {
		errs = validate.Partial(in)
	} else {
		errs = validate.Struct(in)
	}
	for field, msg := range in.malformed {
		errs[field] = msg
	}
	if validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// applyTo copies the supplied fields onto p.
func (in ProductInput) applyTo(p *models.Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.RatingRate != nil {
		p.RatingRate = *in.RatingRate
	}
	if in.RatingCount != nil {
		p.RatingCount = *in.RatingCount
	}
}

// ListParams selects one page of the product list. Zero values fall back to
// the configured defaults.
type ListParams struct {
	Search   string
	Page     int
	PageSize int
}

// ProductPage is one page of the list.
type ProductPage struct {
	Items      []models.Product
	Pagination orm.Pagination
}

// ProductService implements the product operations on top of the
// repository, with a cache in front of single-product reads.
type ProductService struct {
	repo        *repositories.ProductRepository
	cache       cache.Store
	ttl         time.Duration
	pageSize    int
	maxPageSize int
	batchSize   int
	group       singleflight.Group
}

// NewProductService wires the service. A nil store disables caching.
func NewProductService(repo *repositories.ProductRepository, store cache.Store) *ProductService {
	if store == nil {
		store = cache.Nop()
	}
	return &ProductService{
		repo:        repo,
		cache:       store,
		ttl:         config.ProductCacheTTL(),
		pageSize:    config.PageSize(),
		maxPageSize: config.MaxPageSize(),
		batchSize:   config.ImportBatchSize(),
	}
}

// CacheKey is the cache entry of one product.
func CacheKey(id uint) string {
	return "products:" + strconv.FormatUint(uint64(id), 10)
}

// Create validates in and inserts a new product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (product models.Product, err error) {
	defer func() { record("create", err) }()

	if in.Title != nil {
		exists, err := s.repo.TitleExists(ctx, *in.Title, 0)
		if err != nil {
			return product, errors.Wrap(err, "check title")
		}
		if exists {
			return product, ErrDuplicateTitle
		}
	}

	if err := in.check(false); err != nil {
		return product, err
	}

	in.applyTo(&product)
	if err := s.repo.Create(ctx, &product); err != nil {
		if isDuplicateKey(err) {
			return models.Product{}, ErrDuplicateTitle
		}
		return models.Product{}, errors.Wrap(err, "create product")
	}
	return product, nil
}

// Update applies the supplied fields of in to product id.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (product models.Product, err error) {
	defer func() { record("update", err) }()

	if id == 0 {
		return product, ErrMissingIdentifier
	}

	if in.Title != nil {
		exists, err := s.repo.TitleExists(ctx, *in.Title, id)
		if err != nil {
			return product, errors.Wrap(err, "check title")
		}
		if exists {
			return product, ErrDuplicateTitle
		}
	}

	product, err = s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "find product %d", id)
	}

	if err := in.check(true); err != nil {
		return models.Product{}, err
	}

	in.applyTo(&product)
	s.evict(ctx, id)
	if err := s.repo.Save(ctx, &product); err != nil {
		if isDuplicateKey(err) {
			return models.Product{}, ErrDuplicateTitle
		}
		return models.Product{}, errors.Wrapf(err, "save product %d", id)
	}

	s.evict(ctx, id)
	return product, nil
}

// Delete removes product id.
func (s *ProductService) Delete(ctx context.Context, id uint) (err error) {
	defer func() { record("delete", err) }()

	if id == 0 {
		return ErrMissingIdentifier
	}

	s.evict(ctx, id)
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	if !found {
		return ErrNotFound
	}

	s.evict(ctx, id)
	return nil
}

// BulkDelete removes every product in ids. Unknown ids are ignored.
func (s *ProductService) BulkDelete(ctx context.Context, ids []uint) (err error) {
	defer func() { record("bulk_delete", err) }()

	if len(ids) == 0 {
		return ErrInvalidInput
	}

	s.evict(ctx, ids...)
	n, err := s.repo.BulkDelete(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "bulk delete products")
	}
	logger.WithCtx(ctx).Info("products bulk deleted", "requested", len(ids), "deleted", n)

	s.evict(ctx, ids...)
	return nil
}

// List returns one page of products ordered by rating, best first.
func (s *ProductService) List(ctx context.Context, params ListParams) (ProductPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size < 1 {
		size = s.pageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	items, pagination, err := s.repo.List(ctx, params.Search, page, size)
	if err != nil {
		return ProductPage{}, errors.Wrap(err, "list products")
	}
	return ProductPage{Items: items, Pagination: pagination}, nil
}

// Retrieve returns product id, served from the cache when possible.
// Concurrent misses for the same id share one database read.
func (s *ProductService) Retrieve(ctx context.Context, id uint) (models.Product, error) {
	key := CacheKey(id)

	var cached models.Product
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.WithCtx(ctx).Warn("product cache read failed", "key", key, "error", err)
	}
	if found {
		return cached, nil
	}

	// The shared read outlives any one caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		product, err := s.repo.FindByID(shared, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(shared, key, product, s.ttl); err != nil {
			logger.WithCtx(ctx).Warn("product cache write failed", "key", key, "error", err)
		}
		return product, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "find product %d", id)
	}
	return v.(models.Product), nil
}

// evict drops cached copies. Writers call it before and after the write; a
// Retrieve miss that read the old row in between can still cache it, but
// only for PRODUCT_CACHE_TTL.
func (s *ProductService) evict(ctx context.Context, ids ...uint) {
	if err := s.cache.Del(ctx, collection.Map(ids, CacheKey)...); err != nil {
		logger.WithCtx(ctx).Warn("product cache eviction failed", "ids", ids, "error", err)
	}
}

func record(operation string, err error) {
	metrics.RecordProductOperation(operation, errorKind(err))
}

// errorKind is the metrics label for err.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, ErrDuplicateTitle):
		return "duplicate_title"
	case errors.Is(err, ErrMissingIdentifier):
		return "missing_identifier"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "internal"
	}
}
