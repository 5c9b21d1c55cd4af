package models

import "time"

// AuditLog records authenticated mutating requests for auditing.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    *uint  `gorm:"index"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:255"`
	Body      string `gorm:"size:2048"` // truncated request body, JSON only
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time

	User *User `gorm:"constraint:OnDelete:SET NULL"`
}
