package models

import "time"

// Account is a named balance bucket owned by a user.
// AccountName is unique across all users, not per user.
type Account struct {
	AccountID    string `gorm:"primaryKey;size:64"`
	AccountName  string `gorm:"size:128;uniqueIndex;not null"`
	BalanceCents int64  `gorm:"not null;default:0"` // balance in cents
	UserID       string `gorm:"size:64;index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Expenses []Expense `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}
