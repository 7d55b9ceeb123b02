package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/app/models"
)

// ProductRepository handles database operations for Product and Tag.
type ProductRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// All returns every product with its tags.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name")
	}).Order("id").Find(&products).Error
	return products, err
}

func (r *ProductRepository) ByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).Preload("Tags").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ExistingIDs returns the subset of ids that name a product.
func (r *ProductRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	found := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []uint
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = true
	}
	return found, nil
}

// Tags returns every tag by name.
func (r *ProductRepository) Tags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

// Save inserts or updates p and replaces its tag set with tagIDs.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tags []models.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
		}

		if p.ID == 0 {
			if err := tx.Omit("Tags").Create(p).Error; err != nil {
				return translate(err)
			}
		} else {
			res := tx.Model(&models.Product{}).Where("id = ?", p.ID).
				Select("name", "price", "category", "description", "image").
				Updates(map[string]interface{}{
					"name":        p.Name,
					"price":       p.Price,
					"category":    p.Category,
					"description": p.Description,
					"image":       p.Image,
				})
			if res.Error != nil {
				return res.Error
			}
		}

		if err := tx.Model(p).Association("Tags").Replace(tags); err != nil {
			return err
		}
		p.Tags = tags
		return nil
	})
}
