package models

import "time"

// DefaultProfilePic is stored for customers that never uploaded a picture.
const DefaultProfilePic = "profile1.png"

// Customer is the profile of a customer-role user. Admin-created customers
// may have no user.
type Customer struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      *uint     `gorm:"uniqueIndex"`
	User        *User     `gorm:"constraint:OnDelete:SET NULL"`
	Name        string    `gorm:"size:200"`
	Phone       string    `gorm:"size:200"`
	Email       string    `gorm:"size:200"`
	ProfilePic  string    `gorm:"size:255;default:profile1.png"`
	DateCreated time.Time `gorm:"column:date_created;autoCreateTime"`
}
