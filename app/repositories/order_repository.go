package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/app/models"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Counts are the dashboard aggregates.
type Counts struct {
	Total     int64
	Delivered int64
	Pending   int64
}

func (r *OrderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Customer").Preload("Product")
}

// All returns every order in insertion order.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.withRelations(ctx).Order("id").Find(&orders).Error
	return orders, err
}

// ByCustomer returns one customer's orders in insertion order.
func (r *OrderRepository) ByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.withRelations(ctx).Where("customer_id = ?", customerID).Order("id").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.withRelations(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// Counts aggregates order totals, over every order when customerID is nil.
func (r *OrderRepository) Counts(ctx context.Context, customerID *uint) (Counts, error) {
	var rows []struct {
		Status string
		N      int64
	}
	q := r.db.WithContext(ctx).Model(&models.Order{}).Select("status, COUNT(*) AS n").Group("status")
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, row := range rows {
		c.Total += row.N
		switch row.Status {
		case models.StatusDelivered:
			c.Delivered = row.N
		case models.StatusPending:
			c.Pending = row.N
		}
	}
	return c, nil
}

// CreateBatch inserts orders atomically: either every row is stored or none.
func (r *OrderRepository) CreateBatch(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			if err := tx.Omit("Customer", "Product").Create(&orders[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update saves the editable fields of o.
func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", o.ID).
		Select("product_id", "status", "note").
		Updates(map[string]interface{}{
			"product_id": o.ProductID,
			"status":     o.Status,
			"note":       o.Note,
		}).Error
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
