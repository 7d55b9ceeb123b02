// Package migration runs and tracks schema migrations.
//
// Usage (in database/migrations):
//
//	func init() {
//	    migration.Register("20240101000000_create_users_table", createUsers{})
//	}
//
// Run from CLI:
//
//	backoffice migrate             // run all pending
//	backoffice migrate:rollback    // rollback last batch
//	backoffice migrate:status
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(tx *gorm.DB) error
	Down(tx *gorm.DB) error
}

// record is the row stored in the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

var registry []entry

// Register adds a migration to the global registry. Names are
// timestamp-prefixed and run in lexical order.
func Register(name string, m Migration) {
	for _, e := range registry {
		if e.name == name {
			panic(fmt.Sprintf("migration: %q registered twice", name))
		}
	}
	registry = append(registry, entry{name: name, m: m})
}

func sorted() []entry {
	out := append([]entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ErrNoMigrations is returned when Run finds an empty registry.
var ErrNoMigrations = errors.New("migration: no migrations registered")

// Runner executes and tracks migrations. Progress lines go to out.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: list ran: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var last struct{ Max int }
	err := r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return last.Max, nil
}

// Run applies every pending migration as one batch. Each migration and its
// tracking row commit together.
func (r *Runner) Run(ctx context.Context) error {
	if len(registry) == 0 {
		return ErrNoMigrations
	}
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return err
	}
	last, err := r.lastBatch(ctx)
	if err != nil {
		return err
	}
	batch := last + 1

	count := 0
	for _, e := range sorted() {
		if _, ok := done[e.name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "Migrating: %s\n", e.name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		fmt.Fprintf(r.out, "Migrated:  %s\n", e.name)
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migration: done", "ran", count, "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch.
func (r *Runner) Rollback(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	last, err := r.lastBatch(ctx)
	if err != nil {
		return err
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", last).Order("id desc").Find(&rows).Error; err != nil {
		return fmt.Errorf("migration: list batch %d: %w", last, err)
	}

	known := make(map[string]Migration, len(registry))
	for _, e := range registry {
		known[e.name] = e.m
	}

	for _, row := range rows {
		m, ok := known[row.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}
		fmt.Fprintf(r.out, "Rolling back: %s\n", row.Name)
		row := row
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&row).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		fmt.Fprintf(r.out, "Rolled back:  %s\n", row.Name)
	}
	logger.Info("migration: rolled back", "batch", last, "count", len(rows))
	return nil
}

// Status is one line of migrate:status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Status lists every registered migration and whether it has run.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, e := range sorted() {
		row, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}
