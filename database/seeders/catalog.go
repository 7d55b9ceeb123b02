package seeders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
)

func init() {
	Register("groups", seedGroups)
	Register("admin", seedAdmin)
	Register("catalog", seedCatalog)
	Register("demo customers", seedDemoCustomers)
}

func seedGroups(ctx context.Context, db *gorm.DB) error {
	for _, name := range []string{auth.GroupAdmin, auth.GroupCustomer} {
		g := models.Group{Name: name}
		if err := db.WithContext(ctx).Where(models.Group{Name: name}).FirstOrCreate(&g).Error; err != nil {
			return err
		}
	}
	return nil
}

func group(ctx context.Context, db *gorm.DB, name string) (models.Group, error) {
	var g models.Group
	err := db.WithContext(ctx).Where("name = ?", name).First(&g).Error
	return g, err
}

// user returns the user called username, creating it in group when missing.
func user(ctx context.Context, db *gorm.DB, username, email, password, groupName string) (models.User, error) {
	var u models.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return u, err
	}

	g, err := group(ctx, db, groupName)
	if err != nil {
		return u, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return u, err
	}
	u = models.User{Username: username, Email: email, Password: hash, GroupID: &g.ID}
	return u, db.WithContext(ctx).Create(&u).Error
}

// seedAdmin creates "admin" with SEED_ADMIN_PASSWORD; skipped when unset.
func seedAdmin(ctx context.Context, db *gorm.DB) error {
	password := config.Get("SEED_ADMIN_PASSWORD", "")
	if password == "" {
		return nil
	}
	_, err := user(ctx, db, "admin", config.Get("SEED_ADMIN_EMAIL", "admin@example.com"), password, auth.GroupAdmin)
	return err
}

func seedCatalog(ctx context.Context, db *gorm.DB) error {
	tags := map[string]models.Tag{}
	for _, name := range []string{"Sports", "Kitchen", "Summer"} {
		t := models.Tag{Name: name}
		if err := db.WithContext(ctx).Where(models.Tag{Name: name}).FirstOrCreate(&t).Error; err != nil {
			return err
		}
		tags[name] = t
	}

	products := []struct {
		name, category, price string
		tags                  []string
	}{
		{"Ball", models.CategoryOutDoor, "9.99", []string{"Sports", "Summer"}},
		{"BBQ Grill", models.CategoryOutDoor, "149.00", []string{"Kitchen", "Summer"}},
		{"Frying Pan", models.CategoryIndoor, "24.50", []string{"Kitchen"}},
		{"Yoga Mat", models.CategoryIndoor, "19.90", []string{"Sports"}},
	}
	for _, p := range products {
		var existing int64
		if err := db.WithContext(ctx).Model(&models.Product{}).Where("name = ?", p.name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			continue
		}
		row := models.Product{Name: p.name, Category: p.category, Price: decimal.RequireFromString(p.price)}
		for _, t := range p.tags {
			row.Tags = append(row.Tags, tags[t])
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedDemoCustomers adds two customer logins with a few orders, outside
// production only.
func seedDemoCustomers(ctx context.Context, db *gorm.DB) error {
	if config.IsProduction() {
		return nil
	}

	var ball, pan models.Product
	if err := db.WithContext(ctx).Where("name = ?", "Ball").First(&ball).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where("name = ?", "Frying Pan").First(&pan).Error; err != nil {
		return err
	}

	demo := []struct {
		username, name string
		orders         []string
	}{
		{"alice", "Alice Example", []string{models.StatusPending, models.StatusPending, models.StatusDelivered}},
		{"bob", "Bob Example", []string{models.StatusOutForDelivery}},
	}
	for _, d := range demo {
		u, err := user(ctx, db, d.username, d.username+"@example.com", "password123", auth.GroupCustomer)
		if err != nil {
			return err
		}

		var c models.Customer
		err = db.WithContext(ctx).Where("user_id = ?", u.ID).First(&c).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			c = models.Customer{UserID: &u.ID, Name: d.name, Email: u.Email, ProfilePic: models.DefaultProfilePic}
			if err := tx.Omit("User").Create(&c).Error; err != nil {
				return err
			}
			for i, status := range d.orders {
				product := ball
				if i%2 == 1 {
					product = pan
				}
				o := models.Order{
					CustomerID:  c.ID,
					ProductID:   product.ID,
					Status:      status,
					DateCreated: time.Now().AddDate(0, 0, -i),
				}
				if err := tx.Omit("Customer", "Product").Create(&o).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
