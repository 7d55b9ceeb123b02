package models

import "time"

// Group is a role bucket. Seeded rows: "admin" and "customer".
type Group struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:150;uniqueIndex;not null"`
}

// User is a login identity. Its role is the name of its group.
type User struct {
	ID        uint       `gorm:"primaryKey"`
	Username  string     `gorm:"size:150;uniqueIndex;not null"`
	Email     string     `gorm:"size:254;index"`
	Password  string     `gorm:"size:255;not null"` // bcrypt hash
	GroupID   *uint      `gorm:"index"`
	Group     *Group     `gorm:"constraint:OnDelete:SET NULL"`
	LastLogin *time.Time
	CreatedAt time.Time
}
