// Package migrations contains all schema migrations. Each file registers its
// migrations from init(); cmd/backoffice imports this package so they are
// known at CLI startup.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/migration"
)

func init() {
	migration.Register("20240101000000_create_groups_table", table{model: &models.Group{}, name: "groups"})
	migration.Register("20240101000001_create_users_table", table{model: &models.User{}, name: "users"})
	migration.Register("20240101000002_create_customers_table", table{model: &models.Customer{}, name: "customers"})
	migration.Register("20240101000003_create_tags_table", table{model: &models.Tag{}, name: "tags"})
	migration.Register("20240101000004_create_products_table", table{model: &models.Product{}, name: "products", extra: []string{"product_tags"}})
	migration.Register("20240101000005_create_orders_table", table{model: &models.Order{}, name: "orders"})
}

// table creates one model's table (plus any join tables gorm derives from
// it) and drops them again on rollback.
type table struct {
	model interface{}
	name  string
	extra []string
}

func (t table) Up(tx *gorm.DB) error {
	return tx.AutoMigrate(t.model)
}

func (t table) Down(tx *gorm.DB) error {
	for _, name := range t.extra {
		if err := tx.Migrator().DropTable(name); err != nil {
			return err
		}
	}
	return tx.Migrator().DropTable(t.name)
}
