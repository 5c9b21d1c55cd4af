package models

import "time"

// Ad is a classified listing.
// Price is stored in grosz to avoid float rounding, 10.00 zł = 1000.
type Ad struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	PriceGr     int64     `gorm:"index;not null"`
	IsActive    bool      `gorm:"index;not null;default:true"` // listing visibility, independent of the owner's account flag
	Image       string    `gorm:"size:255"`
	UserID      uint      `gorm:"index;not null"`
	CategoryID  uint      `gorm:"index;not null"`
	City        string    `gorm:"size:100;index"`
	Street      string    `gorm:"size:255"`
	PostalCode  string    `gorm:"size:20"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Category Category `gorm:"constraint:OnDelete:CASCADE"`
}
