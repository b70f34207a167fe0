package models

import "time"

// Expense is an immutable debit against an account.
// Amounts are kept in cents to avoid float rounding, e.g. 12.34 = 1234.
type Expense struct {
	ExpenseID   string    `gorm:"primaryKey;size:64"`
	AmountCents int64     `gorm:"not null"`
	AccountID   string    `gorm:"size:64;index;not null"`
	Note        string    `gorm:"size:255"`
	PaymentDate time.Time `gorm:"index;not null"` // defaults to creation time
}
