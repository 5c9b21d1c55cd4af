package models

import "time"

// Favorite bookmarks an ad for a user. The composite unique index is the
// storage-level backstop for the "at most one per (user, ad)" rule.
type Favorite struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_favorites_user_ad;not null"`
	AdID      uint `gorm:"uniqueIndex:idx_favorites_user_ad;not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
	Ad   Ad   `gorm:"constraint:OnDelete:CASCADE"`
}
