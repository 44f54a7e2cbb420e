package migrations_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/database/migrations"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

func TestProductsTableMigration(t *testing.T) {
	db := testkit.NewDB(t)
	runner := migration.New(db).WithOutput(io.Discard)

	n, err := runner.Run()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	m := db.Migrator()
	assert.True(t, m.HasTable(&models.Product{}))
	assert.True(t, m.HasColumn(&models.Product{}, "title_key"))
	assert.True(t, m.HasIndex(&models.Product{}, "idx_products_title_key"))

	_, err = runner.Rollback()
	require.NoError(t, err)
	assert.False(t, m.HasTable(&models.Product{}))
}

func TestMigrationIsRegistered(t *testing.T) {
	var names []string
	for _, e := range migration.Registered() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "20250723000000_create_products_table")

	var _ migration.Migration = &migrations.CreateProductsTable{}
}
