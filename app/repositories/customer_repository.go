package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/app/models"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// All returns every customer in insertion order.
func (r *CustomerRepository) All(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("id").Find(&customers).Error
	return customers, err
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error
	return n, err
}

// ByID looks up a customer by primary key.
func (r *CustomerRepository) ByID(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(c).Error)
}

// UpdateProfile saves the self-service fields of c.
func (r *CustomerRepository) UpdateProfile(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", c.ID).
		Select("name", "phone", "email", "profile_pic").
		Updates(map[string]interface{}{
			"name":        c.Name,
			"phone":       c.Phone,
			"email":       c.Email,
			"profile_pic": c.ProfilePic,
		}).Error
}

// Delete removes the customer and all of its orders in one transaction,
// whether or not the driver enforces the FK cascade.
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
