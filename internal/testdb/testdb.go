// Package testdb gives tests a migrated in-memory SQLite database plus small
// fixture helpers.
package testdb

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/backoffice/database/migrations"

	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
	"github.com/shashiranjanraj/backoffice/pkg/database"
	"github.com/shashiranjanraj/backoffice/pkg/migration"
)

// New opens a private in-memory database and runs every migration on it.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()
	db, err := database.Open("sqlite", "file:"+name+"?mode=memory&cache=shared&_foreign_keys=on")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and serialises
	// writers the way SQLite expects.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.New(db, nil).Run(context.Background()))
	for _, g := range []string{auth.GroupAdmin, auth.GroupCustomer} {
		require.NoError(t, db.Create(&models.Group{Name: g}).Error)
	}
	return db
}

// User creates a user in group ("" for none).
func User(t *testing.T, db *gorm.DB, username, password, group string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := models.User{Username: username, Email: username + "@example.com", Password: hash}
	if group != "" {
		var g models.Group
		require.NoError(t, db.Where("name = ?", group).First(&g).Error)
		u.GroupID = &g.ID
	}
	require.NoError(t, db.Omit("Group").Create(&u).Error)
	return u
}

// Customer creates a customer profile, linked to u when non-nil.
func Customer(t *testing.T, db *gorm.DB, name string, u *models.User) models.Customer {
	t.Helper()

	c := models.Customer{Name: name, Email: strings.ToLower(strings.Fields(name)[0]) + "@example.com", ProfilePic: models.DefaultProfilePic}
	if u != nil {
		c.UserID = &u.ID
	}
	require.NoError(t, db.Omit("User").Create(&c).Error)
	return c
}

// Product creates a product priced at price.
func Product(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()

	p := models.Product{Name: name, Category: models.CategoryIndoor, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Omit("Tags").Create(&p).Error)
	return p
}

// Order creates one order.
func Order(t *testing.T, db *gorm.DB, c models.Customer, p models.Product, status, note string) models.Order {
	t.Helper()

	o := models.Order{CustomerID: c.ID, ProductID: p.ID, Status: status, Note: note}
	require.NoError(t, db.Omit("Customer", "Product").Create(&o).Error)
	return o
}
