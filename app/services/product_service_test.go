package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

func str(s string) *string     { return &s }
func float(f float64) *float64 { return &f }
func integer(n int) *int       { return &n }

type fixture struct {
	svc   *services.ProductService
	repo  *repositories.ProductRepository
	store *cache.MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := repositories.NewProductRepository(testkit.NewDB(t, &models.Product{}))
	store := cache.NewMemory()
	return fixture{svc: services.NewProductService(repo, store), repo: repo, store: store}
}

func input(title string, rate float64) services.ProductInput {
	return services.ProductInput{
		Title:       str(title),
		Price:       float(9.5),
		Description: str("A thing"),
		Category:    str("misc"),
		Image:       str("https://example.com/img.jpg"),
		RatingRate:  float(rate),
		RatingCount: integer(3),
	}
}

func (f fixture) create(t *testing.T, title string, rate float64) models.Product {
	t.Helper()
	p, err := f.svc.Create(context.Background(), input(title, rate))
	require.NoError(t, err)
	return p
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, "Shoe", 4.1)

	assert.NotZero(t, p.ProductID)
	assert.Equal(t, "Shoe", p.Title)
	assert.Equal(t, 9.5, p.Price)
	assert.Equal(t, 3, p.RatingCount)
}

func TestCreateRejectsCaseInsensitiveDuplicate(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Shoe", 4)

	_, err := f.svc.Create(context.Background(), input("SHOE", 3))
	assert.ErrorIs(t, err, services.ErrDuplicateTitle)
}

func TestCreateDuplicateCheckedBeforeValidation(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Shoe", 4)

	_, err := f.svc.Create(context.Background(), services.ProductInput{Title: str("shoe")})
	assert.ErrorIs(t, err, services.ErrDuplicateTitle)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	in := input("Shoe", 4)
	in.Image = str("not a url")
	in.Price = nil

	_, err := f.svc.Create(context.Background(), in)
	require.ErrorIs(t, err, services.ErrValidationFailed)

	var invalid *services.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Fields, "image")
	assert.Contains(t, invalid.Fields, "price")
}

func TestCreateAcceptsZeroPrice(t *testing.T) {
	f := newFixture(t)

	in := input("Freebie", 1)
	in.Price = float(0)
	p, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Zero(t, p.Price)
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Shoe", 4)

	got, err := f.svc.Update(context.Background(), p.ProductID, services.ProductInput{Price: float(20)})
	require.NoError(t, err)

	assert.Equal(t, 20.0, got.Price)
	assert.Equal(t, "Shoe", got.Title)
	assert.Equal(t, "A thing", got.Description)
}

func TestUpdateKeepsOwnTitle(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Shoe", 4)

	got, err := f.svc.Update(context.Background(), p.ProductID, services.ProductInput{Title: str("SHOE")})
	require.NoError(t, err)
	assert.Equal(t, "SHOE", got.Title)
}

func TestUpdateRejectsOtherProductsTitle(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Shoe", 4)
	hat := f.create(t, "Hat", 2)

	_, err := f.svc.Update(context.Background(), hat.ProductID, services.ProductInput{Title: str("shoe")})
	assert.ErrorIs(t, err, services.ErrDuplicateTitle)
}

func TestUpdateErrors(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Shoe", 4)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, 0, services.ProductInput{})
	assert.ErrorIs(t, err, services.ErrMissingIdentifier)

	_, err = f.svc.Update(ctx, 999, services.ProductInput{Price: float(1)})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.svc.Update(ctx, p.ProductID, services.ProductInput{Image: str("nope")})
	assert.ErrorIs(t, err, services.ErrValidationFailed)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Shoe", 4)
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, p.ProductID))
	assert.ErrorIs(t, f.svc.Delete(ctx, p.ProductID), services.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, 0), services.ErrMissingIdentifier)
}

func TestBulkDelete(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "A", 1)
	b := f.create(t, "B", 2)
	c := f.create(t, "C", 3)
	ctx := context.Background()

	require.NoError(t, f.svc.BulkDelete(ctx, []uint{a.ProductID, b.ProductID, 999}))

	page, err := f.svc.List(ctx, services.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, c.ProductID, page.Items[0].ProductID)

	assert.ErrorIs(t, f.svc.BulkDelete(ctx, nil), services.ErrInvalidInput)
}

func TestListOrderingAndDefaults(t *testing.T) {
	f := newFixture(t)
	low := f.create(t, "Low", 1)
	high := f.create(t, "High", 5)
	tie := f.create(t, "Tie", 5)

	page, err := f.svc.List(context.Background(), services.ListParams{Page: -3})
	require.NoError(t, err)

	ids := []uint{page.Items[0].ProductID, page.Items[1].ProductID, page.Items[2].ProductID}
	assert.Equal(t, []uint{high.ProductID, tie.ProductID, low.ProductID}, ids)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.PageSize)
}

func TestListClampsPageSize(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Shoe", 1)

	page, err := f.svc.List(context.Background(), services.ListParams{PageSize: 10000})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Pagination.PageSize)
}

func TestListSearch(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Mens Casual Shirt", 1)
	f.create(t, "Womens Shirt", 2)
	f.create(t, "Backpack", 3)

	page, err := f.svc.List(context.Background(), services.ListParams{Search: "SHIRT"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Womens Shirt", page.Items[0].Title)
	assert.Equal(t, int64(2), page.Pagination.Total)
}

func TestRetrieveCachesAndEvicts(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Shoe", 4)
	ctx := context.Background()

	got, err := f.svc.Retrieve(ctx, p.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Shoe", got.Title)
	assert.Equal(t, 1, f.store.Len())

	_, err = f.svc.Update(ctx, p.ProductID, services.ProductInput{Title: str("Boot")})
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Len(), "update must evict the cached copy")

	got, err = f.svc.Retrieve(ctx, p.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Boot", got.Title)

	require.NoError(t, f.svc.Delete(ctx, p.ProductID))
	assert.Equal(t, 0, f.store.Len())

	_, err = f.svc.Retrieve(ctx, p.ProductID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRetrieveServesFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cached := models.Product{ProductID: 77, Title: "Cached"}
	require.NoError(t, f.store.Set(ctx, services.CacheKey(77), cached, 0))

	got, err := f.svc.Retrieve(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, "Cached", got.Title)
}

func TestBulkDeleteEvicts(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "A", 1)
	ctx := context.Background()

	_, err := f.svc.Retrieve(ctx, a.ProductID)
	require.NoError(t, err)
	require.Equal(t, 1, f.store.Len())

	require.NoError(t, f.svc.BulkDelete(ctx, []uint{a.ProductID}))
	assert.Equal(t, 0, f.store.Len())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "products:42", services.CacheKey(42))
}

func decode(t *testing.T, body string) services.ProductInput {
	t.Helper()
	var in services.ProductInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestProductInputCoercesNumericStrings(t *testing.T) {
	f := newFixture(t)

	in := decode(t, `{
		"title": "Shoe",
		"price": "9.5",
		"description": "A thing",
		"category": "misc",
		"image": "https://example.com/img.jpg",
		"rating_rate": "4.1",
		"rating_count": "3"
	}`)
	p, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 9.5, p.Price)
	assert.Equal(t, 4.1, p.RatingRate)
	assert.Equal(t, 3, p.RatingCount)
}

func TestProductInputReportsUncoercibleFields(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Shoe", 4)

	in := decode(t, `{"price": "abc", "rating_count": 3.5, "title": 7}`)
	_, err := f.svc.Update(context.Background(), p.ProductID, in)

	var invalid *services.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, map[string]string{
		"price":        "The price field must be a number.",
		"rating_count": "The rating_count field must be an integer.",
		"title":        "The title field must be a string.",
	}, invalid.Fields)
}

func TestUpdateUnknownProductBeatsMalformedField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), 999, decode(t, `{"price": "abc"}`))
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateDuplicateBeatsMalformedField(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Backpack", 4)

	_, err := f.svc.Create(context.Background(), decode(t, `{"title": "BACKPACK", "price": "abc"}`))
	assert.ErrorIs(t, err, services.ErrDuplicateTitle)
}

func TestUpdateUnknownProductWithTakenTitleIsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Backpack", 4)

	_, err := f.svc.Update(context.Background(), 999, services.ProductInput{Title: str("backpack")})
	assert.ErrorIs(t, err, services.ErrDuplicateTitle)
}

func TestRetrieveSurvivesCallerCancellation(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, "Shoe", 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := f.svc.Retrieve(ctx, p.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Shoe", got.Title)
}

// recordingStore logs every evicted key.
type recordingStore struct {
	*cache.MemoryStore
	evicted []string
}

func (s *recordingStore) Del(ctx context.Context, keys ...string) error {
	s.evicted = append(s.evicted, keys...)
	return s.MemoryStore.Del(ctx, keys...)
}

func TestWritesEvictBeforeAndAfter(t *testing.T) {
	repo := repositories.NewProductRepository(testkit.NewDB(t, &models.Product{}))
	store := &recordingStore{MemoryStore: cache.NewMemory()}
	svc := services.NewProductService(repo, store)
	ctx := context.Background()

	p, err := svc.Create(ctx, input("Shoe", 4))
	require.NoError(t, err)
	key := services.CacheKey(p.ProductID)

	_, err = svc.Update(ctx, p.ProductID, services.ProductInput{Price: float(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{key, key}, store.evicted)

	store.evicted = nil
	require.NoError(t, svc.Delete(ctx, p.ProductID))
	assert.Equal(t, []string{key, key}, store.evicted)
}
