package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

type staticSource []services.Descriptor

func (s staticSource) Fetch(context.Context) ([]services.Descriptor, error) { return s, nil }

func TestSeedFromIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t, &models.Product{})
	src := staticSource{
		{Title: "Backpack", Price: 109.95, Description: "d", Category: "bags", Image: "https://example.com/1.png"},
		{Title: "Jacket", Price: 55.99, Description: "d", Category: "clothing", Image: "https://example.com/2.png"},
	}

	require.NoError(t, seedFrom(context.Background(), db, src))
	require.NoError(t, seedFrom(context.Background(), db, src))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRunAllReportsProgress(t *testing.T) {
	assert.Contains(t, Names(), "products")

	var out bytes.Buffer
	mu.Lock()
	saved := entries
	entries = []seederEntry{{name: "noop", fn: func(context.Context, *gorm.DB) error { return nil }}}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		entries = saved
		mu.Unlock()
	})

	require.NoError(t, RunAll(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "Running seeder: noop ... done")
}
