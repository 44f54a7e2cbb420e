package orm

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"gorm.io/gorm"
)

// Query is an immutable wrapper around *gorm.DB. Every builder method returns
// a new Query, so a partially built query can be shared and extended.
type Query struct {
	db *gorm.DB
}

// Pagination describes one page of a result set.
type Pagination struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	LastPage int   `json:"last_page"`
}

// DB starts a query on the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Use starts a query on an explicit connection (tests, transactions).
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for callers that need raw GORM.
func (q *Query) Gorm() *gorm.DB {
	return q.db
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

// Pluck loads a single column into dest, e.g. a []string.
func (q *Query) Pluck(column string, dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Pluck(column, dest).Error
}

func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("count", time.Now())
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Exists reports whether at least one row matches. The Query must have a
// Model set.
func (q *Query) Exists() (bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var found int
	err := q.db.Select("1").Limit(1).Find(&found).Error
	if err != nil {
		return false, err
	}
	return found == 1, nil
}

func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

func (q *Query) CreateInBatches(v interface{}, size int) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.CreateInBatches(v, size).Error
}

// Save updates every column of v by primary key.
func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Delete removes the rows matching the current conditions and reports how
// many were affected.
func (q *Query) Delete(model interface{}, conds ...interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(model, conds...)
	return res.RowsAffected, res.Error
}

// Transaction runs fn inside a database transaction. fn must only use the
// Query it is handed.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// GetWithPagination counts all matching rows, then loads page (1-based) of
// pageSize rows into dest. A page past the end leaves dest empty.
func (q *Query) GetWithPagination(dest interface{}, page, pageSize int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return Pagination{}, errors.New("orm: page size must be positive")
	}

	base := q.db.Session(&gorm.Session{})

	var total int64
	start := time.Now()
	if err := base.Count(&total).Error; err != nil {
		return Pagination{}, err
	}
	metrics.ObserveDBQuery("count", start)

	start = time.Now()
	if err := base.Offset((page - 1) * pageSize).Limit(pageSize).Find(dest).Error; err != nil {
		return Pagination{}, err
	}
	metrics.ObserveDBQuery("select", start)

	lastPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	if lastPage < 1 {
		lastPage = 1
	}

	return Pagination{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		LastPage: lastPage,
	}, nil
}
