package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories.
const (
	CategoryIndoor  = "Indoor"
	CategoryOutDoor = "Out Door"
)

// Categories lists the selectable product categories in display order.
var Categories = []string{CategoryIndoor, CategoryOutDoor}

// Tag labels products.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:200;uniqueIndex;not null"`
}

// Product is a catalog item.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:200;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Category    string          `gorm:"size:200"`
	Description string          `gorm:"size:200"`
	Image       string          `gorm:"size:255"`
	DateCreated time.Time       `gorm:"column:date_created;autoCreateTime"`
	Tags        []Tag           `gorm:"many2many:product_tags;constraint:OnDelete:CASCADE"`
}
