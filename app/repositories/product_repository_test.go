package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

func newRepo(t *testing.T) *repositories.ProductRepository {
	t.Helper()
	return repositories.NewProductRepository(testkit.NewDB(t, &models.Product{}))
}

func product(title string, rate float64) *models.Product {
	return &models.Product{
		Title:       title,
		Price:       10,
		Description: "desc",
		Category:    "misc",
		Image:       "https://example.com/" + title + ".jpg",
		RatingRate:  rate,
		RatingCount: 1,
	}
}

func seed(t *testing.T, repo *repositories.ProductRepository, products ...*models.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, repo.Create(context.Background(), p))
	}
}

func TestCreateSetsIDAndTitleKey(t *testing.T) {
	repo := newRepo(t)
	p := product("Red Shoe", 4)
	seed(t, repo, p)

	assert.NotZero(t, p.ProductID)
	assert.Equal(t, "red shoe", p.TitleKey)
}

func TestTitleExistsIgnoresCase(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := product("Shoe", 4)
	seed(t, repo, p)

	exists, err := repo.TitleExists(ctx, "SHOE", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.TitleExists(ctx, "shoe", p.ProductID)
	require.NoError(t, err)
	assert.False(t, exists, "a product never conflicts with itself")

	exists, err = repo.TitleExists(ctx, "Boot", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUniqueIndexRejectsCaseVariant(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, product("Shoe", 4))

	err := repo.Create(context.Background(), product("SHOE", 3))
	assert.Error(t, err)
}

func TestFindByIDMiss(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOrdersByRatingThenID(t *testing.T) {
	repo := newRepo(t)
	a, b, c := product("A", 3), product("B", 5), product("C", 5)
	seed(t, repo, a, b, c)

	items, pagination, err := repo.List(context.Background(), "", 1, 10)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, []uint{b.ProductID, c.ProductID, a.ProductID},
		[]uint{items[0].ProductID, items[1].ProductID, items[2].ProductID})
	assert.Equal(t, int64(3), pagination.Total)
	assert.Equal(t, 1, pagination.LastPage)
}

func TestListPaginates(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, product("A", 1), product("B", 2), product("C", 3))

	items, pagination, err := repo.List(context.Background(), "", 2, 2)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 2, pagination.PageSize)
	assert.Equal(t, 2, pagination.LastPage)
}

func TestListSearch(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, product("Mens Backpack", 3), product("Womens Jacket", 4), product("100% Cotton", 2), product("Cotton Tee", 1))

	items, _, err := repo.List(context.Background(), "BACK", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mens Backpack", items[0].Title)

	// Wildcards in the search term match literally.
	items, pagination, err := repo.List(context.Background(), "0%", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100% Cotton", items[0].Title)
	assert.Equal(t, int64(1), pagination.Total)
}

func TestSaveUpdatesTitleKey(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := product("Shoe", 4)
	seed(t, repo, p)

	p.Title = "Boot"
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.FindByID(ctx, p.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Boot", got.Title)
	assert.Equal(t, "boot", got.TitleKey)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	p := product("Shoe", 4)
	seed(t, repo, p)

	found, err := repo.Delete(ctx, p.ProductID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, p.ProductID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBulkDeleteIgnoresUnknownIDs(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	a, b, c := product("A", 1), product("B", 2), product("C", 3)
	seed(t, repo, a, b, c)

	n, err := repo.BulkDelete(ctx, []uint{a.ProductID, b.ProductID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, c.ProductID, all[0].ProductID)
}

func TestExistingTitleKeys(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, product("Shoe", 1), product("Hat", 2))

	found, err := repo.ExistingTitleKeys(context.Background(), []string{"shoe", "boot", "hat"})
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"shoe": {}, "hat": {}}, found)
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	seed(t, repo, product("Shoe", 1))

	batch := []models.Product{*product("Hat", 2), *product("Scarf", 3), *product("SHOE", 4)}
	err := repo.CreateBatch(ctx, batch, 2)
	require.Error(t, err)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "the failed batch must not leave partial rows")
}

func TestCreateBatch(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	batch := []models.Product{*product("Hat", 2), *product("Scarf", 3), *product("Boot", 4)}
	require.NoError(t, repo.CreateBatch(ctx, batch, 2))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
