package models

import "time"

// Order statuses.
const (
	StatusPending        = "Pending"
	StatusOutForDelivery = "Out for delivery"
	StatusDelivered      = "Delivered"
)

// Statuses lists the order statuses in display order.
var Statuses = []string{StatusPending, StatusOutForDelivery, StatusDelivered}

// Order is one product ordered by one customer.
type Order struct {
	ID          uint      `gorm:"primaryKey"`
	CustomerID  uint      `gorm:"not null;index"`
	Customer    Customer  `gorm:"constraint:OnDelete:CASCADE"`
	ProductID   uint      `gorm:"not null;index"`
	Product     Product   `gorm:"constraint:OnDelete:RESTRICT"`
	Status      string    `gorm:"size:200;not null"`
	Note        string    `gorm:"size:1000"`
	DateCreated time.Time `gorm:"column:date_created;autoCreateTime"`
}
