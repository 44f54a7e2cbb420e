// Package migration runs versioned schema migrations and records them in the
// catalog_migrations table.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20250723000000_create_products_table", &CreateProductsTable{})
//	}
//
// Run from the CLI:
//
//	catalog migrate             // run all pending
//	catalog migrate:rollback    // roll back the last batch
//	catalog migrate:status      // list every migration
package migration

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"gorm.io/gorm"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Entry pairs a migration with its timestamp-prefixed name.
type Entry struct {
	Name      string
	Migration Migration
}

// Status is one row of `migrate:status`.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "catalog_migrations" }

var registry []Entry

// Register adds a migration to the global registry. Names sort
// lexicographically, so prefix them with a timestamp.
func Register(name string, m Migration) {
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a copy of the global registry sorted by name.
func Registered() []Entry {
	out := append([]Entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	out     io.Writer
	entries []Entry
}

// New returns a Runner over the global registry that reports to stdout.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout, entries: Registered()}
}

// WithEntries replaces the migration set, e.g. for tests.
func (r *Runner) WithEntries(entries ...Entry) *Runner {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	r.entries = sorted
	return r
}

// WithOutput redirects progress lines.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&migrationRecord{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]migrationRecord, error) {
	var records []migrationRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]migrationRecord, len(records))
	for _, rec := range records {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the migrations that have not run yet, in name order.
func (r *Runner) Pending() ([]Entry, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run executes every pending migration as one batch and returns how many ran.
func (r *Runner) Run() (int, error) {
	pending, err := r.Pending()
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	batch++

	for _, e := range pending {
		fmt.Fprintf(r.out, "  Migrating: %s\n", e.Name)
		if err := e.Migration.Up(r.db); err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		if err := r.db.Create(&migrationRecord{Name: e.Name, Batch: batch}).Error; err != nil {
			return 0, fmt.Errorf("migration: record %s: %w", e.Name, err)
		}
		fmt.Fprintf(r.out, "  Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverses the most recent batch and returns how many were undone.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	batch, err := r.lastBatch()
	if err != nil {
		return 0, err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return 0, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}
		fmt.Fprintf(r.out, "  Rolling back: %s\n", rec.Name)
		if err := m.Down(r.db); err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&migrationRecord{}, rec.ID).Error; err != nil {
			return 0, fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}
		fmt.Fprintf(r.out, "  Rolled back:  %s\n", rec.Name)
	}

	logger.Info("migration: rolled back", "count", len(records), "batch", batch)
	return len(records), nil
}

// Status reports every known migration and whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		rec, ok := ran[e.Name]
		out = append(out, Status{Name: e.Name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

// PrintStatus writes Status as a table.
func (r *Runner) PrintStatus() error {
	rows, err := r.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, row := range rows {
		if row.Ran {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", row.Name, "Ran", row.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", row.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch() (int, error) {
	var batch int
	err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0)").Scan(&batch).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return batch, nil
}
