// Package repositories is the data-access boundary. Lookups by id return
// ErrNotFound instead of gorm's error so handlers can render a 404 page.
package repositories

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), uniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

// uniqueViolation catches SQLite constraint errors, which gorm's sqlite
// translator misses because go-sqlite3 returns them by value.
func uniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// Repositories bundles every repository over one connection.
type Repositories struct {
	Users     *UserRepository
	Customers *CustomerRepository
	Products  *ProductRepository
	Orders    *OrderRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Customers: NewCustomerRepository(db),
		Products:  NewProductRepository(db),
		Orders:    NewOrderRepository(db),
	}
}
