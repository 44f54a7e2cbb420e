package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts imports the catalog from IMPORT_SOURCE_URL. Titles already
// present are left alone, so seeding twice is harmless.
func SeedProducts(ctx context.Context, db *gorm.DB) error {
	return seedFrom(ctx, db, services.NewHTTPSource())
}

func seedFrom(ctx context.Context, db *gorm.DB, src services.Source) error {
	svc := services.NewProductService(repositories.NewProductRepository(db), nil)
	result, err := svc.Import(ctx, src)
	if err != nil {
		return err
	}
	logger.Info("seed: products", "imported", result.Imported, "skipped", result.Skipped)
	return nil
}
