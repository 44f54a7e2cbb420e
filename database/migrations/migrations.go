// Package migrations registers the schema migrations. Blank-import it from
// any binary that runs `migrate`.
package migrations

import (
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250723000000_create_products_table", &CreateProductsTable{})
}

// CreateProductsTable creates products with the unique title_key index and
// the rating_rate index used by the list ordering.
type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}
