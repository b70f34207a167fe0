package models

import "time"

// User represents an application user. Users are immutable after sign-up.
type User struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time

	Accounts []Account `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
