// Package store persists users, accounts and expenses.
//
// Callers depend on the CredentialStore and LedgerStore interfaces; GormStore
// is the relational implementation. Every mutating method runs as a single
// statement or a single transaction, so concurrent requests never observe a
// half-applied debit.
package store

import (
	"context"
	"errors"
	"time"

	"expense-ledger/internal/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyExists       = errors.New("record already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Identity is the minimal credential record resolved from a username.
type Identity struct {
	UserID       string
	Email        string
	PasswordHash string
}

// ExpenseRecord is an expense joined with the name of its account.
type ExpenseRecord struct {
	ExpenseID   string
	AmountCents int64
	Note        string
	PaymentDate time.Time
	AccountName string
}

// ExpenseQuery narrows an owner's expense history. Zero values disable a filter.
type ExpenseQuery struct {
	AccountName string
	After       time.Time // exclusive lower bound
	Before      time.Time // exclusive upper bound
	Since       time.Time // inclusive lower bound
}

// CredentialStore persists user identities.
type CredentialStore interface {
	// CreateUser inserts u; ErrAlreadyExists when its id, username or email is taken.
	CreateUser(ctx context.Context, u *models.User) error
	// FindIdentity looks a user up by username; ErrNotFound when absent.
	FindIdentity(ctx context.Context, username string) (Identity, error)
	// FindActiveUser returns the user whose id, email and password hash all still match.
	FindActiveUser(ctx context.Context, id Identity) (models.User, error)
}

// LedgerStore persists accounts and expenses.
type LedgerStore interface {
	// CreateAccount inserts a; ErrAlreadyExists when the name is used by any user.
	CreateAccount(ctx context.Context, a *models.Account) error
	ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error)
	// FindOwnedAccount looks up an account by name within one owner's accounts.
	FindOwnedAccount(ctx context.Context, ownerID, accountName string) (models.Account, error)
	// Debit atomically decrements the named account (looked up system-wide) and
	// inserts the matching expense. ErrNotFound or ErrInsufficientBalance leave
	// both the balance and the expense set untouched.
	Debit(ctx context.Context, accountName string, amountCents int64, note string, paidAt time.Time) (models.Expense, error)
	// Credit atomically increments an account owned by ownerID.
	Credit(ctx context.Context, ownerID, accountName string, amountCents int64) error
	// ListExpenses returns an owner's expenses ordered by payment date.
	ListExpenses(ctx context.Context, ownerID string, q ExpenseQuery) ([]ExpenseRecord, error)
	// SumExpenses returns the total and number of an owner's matching expenses.
	SumExpenses(ctx context.Context, ownerID string, q ExpenseQuery) (totalCents int64, count int64, err error)
}

// Store is everything the services need.
type Store interface {
	CredentialStore
	LedgerStore
}
