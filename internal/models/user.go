package models

import "time"

// User represents a marketplace account. Email and username are both
// login identifiers; uniqueness is enforced at the database level in
// addition to the pre-flight checks in the handlers.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"`
	FirstName    string    `gorm:"size:50"`
	LastName     string    `gorm:"size:50"`
	PasswordHash string    `gorm:"size:255;not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	IsStaff      bool      `gorm:"not null;default:false"`
	DateJoined   time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time

	Profile Profile `gorm:"constraint:OnDelete:CASCADE"`
}

// Profile holds the public, optional part of an account.
type Profile struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	Avatar    string `gorm:"size:255"` // stored file path, empty = default avatar
	Phone     string `gorm:"size:15"`
	Address   string `gorm:"size:255"`
	Bio       string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
