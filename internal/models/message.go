package models

import (
	"time"

	"gorm.io/gorm"
)

// Message is a direct message between two users about an ad.
// Deletion by a participant is a soft delete.
type Message struct {
	ID          uint           `gorm:"primaryKey"`
	SenderID    uint           `gorm:"index;not null"`
	RecipientID uint           `gorm:"index;not null"`
	AdID        uint           `gorm:"index;not null"`
	Content     string         `gorm:"type:text;not null"`
	IsRead      bool           `gorm:"not null;default:false"`
	CreatedAt   time.Time      `gorm:"index"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Sender    User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Ad        Ad   `gorm:"constraint:OnDelete:CASCADE"`
}
