package models

import "time"

// Category is a node in the ad category tree. Slug is derived from the
// name on create and deduplicated with a numeric suffix.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	Slug      string `gorm:"size:100;uniqueIndex;not null"`
	ParentID  *uint  `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Parent *Category `gorm:"constraint:OnDelete:CASCADE"`
}
