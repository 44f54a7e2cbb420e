package services

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

// DefaultExportPath is where `catalog export` writes when no path is given.
const DefaultExportPath = "exports/products.json"

// Export writes every product, ordered by id, to path on disk in the import
// source format and returns how many were written.
func (s *ProductService) Export(ctx context.Context, disk storage.Disk, path string) (int, error) {
	products, err := s.repo.All(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "load products")
	}

	raw, err := json.MarshalIndent(collection.Map(products, DescriptorFrom), "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "encode export")
	}
	if err := disk.Put(ctx, path, raw); err != nil {
		return 0, errors.Wrapf(err, "write %s", path)
	}

	logger.WithCtx(ctx).Info("export: done", "count", len(products), "path", path, "url", disk.URL(path))
	return len(products), nil
}
