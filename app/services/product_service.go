package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/pkg/storage"
)

// ProductDir is where product images are stored.
const ProductDir = "products"

// ProductService backs the catalog pages.
type ProductService struct {
	products *repositories.ProductRepository
	disk     storage.Disk
}

func NewProductService(products *repositories.ProductRepository, disk storage.Disk) *ProductService {
	return &ProductService{products: products, disk: disk}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

func (s *ProductService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.products.Tags(ctx)
}

func (s *ProductService) ByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.ByID(ctx, id)
}

// ImageURL is the public URL of a stored product image, "" when none.
func (s *ProductService) ImageURL(name string) string {
	if name == "" {
		return ""
	}
	return s.disk.URL(name)
}

// Save creates (p.ID == 0) or updates p from a validated form.
func (s *ProductService) Save(ctx context.Context, p *models.Product, in forms.Product, image *multipart.FileHeader) (map[string]string, error) {
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return map[string]string{"price": "Enter a number."}, nil
	}

	previous := p.Image
	img := previous
	if image != nil {
		name, err := storage.SaveUpload(ctx, s.disk, ProductDir, image)
		if errors.Is(err, storage.ErrUnsupportedType) {
			return map[string]string{"image": MsgBadImage}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("product: store image: %w", err)
		}
		img = name
	}

	p.Name = in.Name
	p.Price = price.Round(2)
	p.Category = in.Category
	p.Description = in.Description
	p.Image = img

	if err := s.products.Save(ctx, p, in.Tags); err != nil {
		if p.Image != previous {
			_ = s.disk.Delete(ctx, p.Image)
		}
		return nil, fmt.Errorf("product: %w", err)
	}
	if previous != "" && p.Image != previous {
		_ = s.disk.Delete(ctx, previous)
	}
	return nil, nil
}
