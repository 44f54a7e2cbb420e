package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/orm"
)

// inChunk bounds the number of bind parameters in one IN (...) list.
const inChunk = 500

// likeEscaper makes user input literal inside a LIKE pattern using '!' as
// the escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository binds the repository to db. A nil db means the global
// connection opened by database.Connect.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) query(ctx context.Context) *orm.Query {
	if r.db == nil {
		return orm.DB().WithContext(ctx)
	}
	return orm.Use(r.db).WithContext(ctx)
}

// TitleExists reports whether a product other than excludeID already uses
// title, ignoring case. Pass 0 to check every product.
func (r *ProductRepository) TitleExists(ctx context.Context, title string, excludeID uint) (bool, error) {
	q := r.query(ctx).Model(&models.Product{}).Where("title_key = ?", models.TitleKey(title))
	if excludeID != 0 {
		q = q.Where("product_id <> ?", excludeID)
	}
	return q.Exists()
}

// FindByID looks up a product by primary key. A miss is gorm.ErrRecordNotFound.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := r.query(ctx).Where("product_id = ?", id).First(&product)
	return product, err
}

// List returns one page of products, best rated first. search filters on a
// case-insensitive title substring before paging.
func (r *ProductRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Product, orm.Pagination, error) {
	q := r.query(ctx).Model(&models.Product{})
	if search != "" {
		pattern := "%" + likeEscaper.Replace(models.TitleKey(search)) + "%"
		q = q.Where("title_key LIKE ? ESCAPE '!'", pattern)
	}
	q = q.Order("rating_rate DESC").Order("product_id ASC")

	products := []models.Product{}
	pagination, err := q.GetWithPagination(&products, page, pageSize)
	return products, pagination, err
}

// All returns every product ordered by id.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.query(ctx).Model(&models.Product{}).Order("product_id ASC").Get(&products)
	return products, err
}

// Create persists a new product and fills in its id.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.query(ctx).Create(product)
}

// Save writes every column of an existing product in one UPDATE.
func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.query(ctx).Save(product)
}

// Delete removes one product and reports whether it existed.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (bool, error) {
	n, err := r.query(ctx).Where("product_id = ?", id).Delete(&models.Product{})
	return n > 0, err
}

// BulkDelete removes every product whose id is in ids with one statement.
// Unknown ids are ignored.
func (r *ProductRepository) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.query(ctx).Where("product_id IN ?", ids).Delete(&models.Product{})
}

// ExistingTitleKeys returns the subset of keys already stored.
func (r *ProductRepository) ExistingTitleKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(keys))
	for _, chunk := range collection.Chunk(keys, inChunk) {
		var stored []string
		err := r.query(ctx).Model(&models.Product{}).Where("title_key IN ?", chunk).Pluck("title_key", &stored)
		if err != nil {
			return nil, err
		}
		for _, k := range stored {
			found[k] = struct{}{}
		}
	}
	return found, nil
}

// CreateBatch inserts products in one transaction, batchSize rows per
// statement. Nothing is committed if any batch fails.
func (r *ProductRepository) CreateBatch(ctx context.Context, products []models.Product, batchSize int) error {
	if len(products) == 0 {
		return nil
	}
	if batchSize < 1 {
		batchSize = len(products)
	}
	return r.query(ctx).Transaction(func(tx *orm.Query) error {
		return tx.CreateInBatches(&products, batchSize)
	})
}
