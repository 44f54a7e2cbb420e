package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	cataloghttp "github.com/shashiranjanraj/catalog/pkg/http"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

// Rating is the nested rating object of a Descriptor.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Descriptor is a product as published by the import source.
type Descriptor struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

func (d Descriptor) key() string { return models.TitleKey(d.Title) }

func (d Descriptor) model() models.Product {
	return models.Product{
		Title:       d.Title,
		TitleKey:    d.key(),
		Price:       d.Price,
		Description: d.Description,
		Category:    d.Category,
		Image:       d.Image,
		RatingRate:  d.Rating.Rate,
		RatingCount: d.Rating.Count,
	}
}

// unstorable names the first field of d that the products table cannot
// hold, or "" when d is fine.
func (d Descriptor) unstorable() string {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return "title is blank"
	case utf8.RuneCountInString(d.Title) > 255:
		return "title exceeds 255 characters"
	case utf8.RuneCountInString(d.Category) > 255:
		return "category exceeds 255 characters"
	case utf8.RuneCountInString(d.Image) > 200:
		return "image exceeds 200 characters"
	}
	return ""
}

// DescriptorFrom converts a stored product back to the source format.
func DescriptorFrom(p models.Product) Descriptor {
	return Descriptor{
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      Rating{Rate: p.RatingRate, Count: p.RatingCount},
	}
}

// Source yields product descriptors to import.
type Source interface {
	Fetch(ctx context.Context) ([]Descriptor, error)
}

// HTTPSource fetches descriptors with a GET request.
type HTTPSource struct {
	URL      string
	Timeout  time.Duration
	Attempts int
}

// NewHTTPSource reads IMPORT_SOURCE_URL, IMPORT_TIMEOUT and IMPORT_ATTEMPTS.
func NewHTTPSource() *HTTPSource {
	return &HTTPSource{
		URL:      config.ImportSourceURL(),
		Timeout:  config.ImportTimeout(),
		Attempts: config.ImportAttempts(),
	}
}

// Fetch treats any transport failure, non-2xx status or undecodable body
// as ErrUpstreamUnavailable.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Descriptor, error) {
	resp, err := cataloghttp.Get(s.URL).
		WithContext(ctx).
		Timeout(s.Timeout).
		Retry(s.Attempts, 500*time.Millisecond).
		Send()
	if err != nil {
		return nil, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	if err := resp.Throw(); err != nil {
		return nil, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}

	var out []Descriptor
	if err := resp.JSON(&out); err != nil {
		return nil, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}
	return out, nil
}

// DiskSource reads a JSON descriptor array from a storage disk, typically
// one written by Export.
type DiskSource struct {
	Disk storage.Disk
	Path string
}

func (s *DiskSource) Fetch(ctx context.Context) ([]Descriptor, error) {
	raw, err := s.Disk.Get(ctx, s.Path)
	if err != nil {
		return nil, errors.Wrap(ErrUpstreamUnavailable, err.Error())
	}

	var out []Descriptor
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(ErrUpstreamUnavailable, "decode %s: %v", s.Path, err)
	}
	return out, nil
}

// ImportResult summarises one import run.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Message is the client-facing summary.
func (r ImportResult) Message() string {
	switch r.Imported {
	case 0:
		return "All products already exist. No new products were imported."
	case 1:
		return "1 product has been imported successfully"
	default:
		return fmt.Sprintf("%d products have been imported successfully", r.Imported)
	}
}

// Import fetches descriptors from src and inserts those whose title is new.
// Within one batch the first descriptor of each title wins. All inserts
// commit together or not at all.
func (s *ProductService) Import(ctx context.Context, src Source) (result ImportResult, err error) {
	defer func() { record("import", err) }()
	log := logger.WithCtx(ctx)

	descriptors, err := src.Fetch(ctx)
	if err != nil {
		return result, err
	}

	storable := collection.Filter(descriptors, func(d Descriptor) bool {
		if reason := d.unstorable(); reason != "" {
			log.Warn("import: skipping descriptor", "title", d.Title, "reason", reason)
			return false
		}
		return true
	})
	unique := collection.UniqueBy(storable, Descriptor.key)

	existing, err := s.repo.ExistingTitleKeys(ctx, collection.Map(unique, Descriptor.key))
	if err != nil {
		return result, errors.Wrap(err, "load existing titles")
	}
	fresh := collection.Reject(unique, func(d Descriptor) bool {
		_, ok := existing[d.key()]
		return ok
	})

	result.Skipped = len(descriptors) - len(fresh)
	if len(fresh) == 0 {
		log.Info("import: nothing new", "fetched", len(descriptors))
		return result, nil
	}

	products := collection.Map(fresh, Descriptor.model)
	if err := s.repo.CreateBatch(ctx, products, s.batchSize); err != nil {
		if isDuplicateKey(err) {
			return ImportResult{}, ErrDuplicateTitle
		}
		return ImportResult{}, errors.Wrap(err, "insert imported products")
	}

	result.Imported = len(products)
	metrics.ProductsImported.Add(float64(result.Imported))
	log.Info("import: done", "fetched", len(descriptors), "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}
