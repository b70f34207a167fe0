package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expense-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// New wraps an open gorm connection.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("id = ? OR username = ? OR email = ?", u.ID, u.Username, u.Email).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check user: %w", err)
		}
		if count > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(u).Error
	})
	return translate(err)
}

func (s *GormStore) FindIdentity(ctx context.Context, username string) (Identity, error) {
	var u models.User
	if err := s.db.WithContext(ctx).
		Select("id", "email", "password_hash").
		Where("username = ?", username).
		First(&u).Error; err != nil {
		return Identity{}, translate(err)
	}
	return Identity{UserID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
}

func (s *GormStore) FindActiveUser(ctx context.Context, id Identity) (models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND email = ? AND password_hash = ?", id.UserID, id.Email, id.PasswordHash).
		First(&u).Error; err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (s *GormStore) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.AccountID == "" {
		a.AccountID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// account names are unique across all users
		var count int64
		if err := tx.Model(&models.Account{}).
			Where("account_name = ?", a.AccountName).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check account: %w", err)
		}
		if count > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(a).Error
	})
	return translate(err)
}

func (s *GormStore) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC, account_name ASC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *GormStore) FindOwnedAccount(ctx context.Context, ownerID, accountName string) (models.Account, error) {
	var a models.Account
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND account_name = ?", ownerID, accountName).
		First(&a).Error; err != nil {
		return models.Account{}, translate(err)
	}
	return a, nil
}

func (s *GormStore) Debit(ctx context.Context, accountName string, amountCents int64, note string, paidAt time.Time) (models.Expense, error) {
	var expense models.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Check and decrement in one statement: the row only changes when the
		// balance still covers the amount at write time.
		res := tx.Model(&models.Account{}).
			Where("account_name = ? AND balance_cents >= ?", accountName, amountCents).
			Update("balance_cents", gorm.Expr("balance_cents - ?", amountCents))
		if res.Error != nil {
			return fmt.Errorf("debit account: %w", res.Error)
		}

		var account models.Account
		if err := tx.Select("account_id").
			Where("account_name = ?", accountName).
			First(&account).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		expense = models.Expense{
			ExpenseID:   uuid.NewString(),
			AmountCents: amountCents,
			AccountID:   account.AccountID,
			Note:        note,
			PaymentDate: paidAt.UTC(),
		}
		if err := tx.Create(&expense).Error; err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Expense{}, translate(err)
	}
	return expense, nil
}

func (s *GormStore) Credit(ctx context.Context, ownerID, accountName string, amountCents int64) error {
	res := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ? AND account_name = ?", ownerID, accountName).
		Update("balance_cents", gorm.Expr("balance_cents + ?", amountCents))
	if res.Error != nil {
		return fmt.Errorf("credit account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListExpenses(ctx context.Context, ownerID string, q ExpenseQuery) ([]ExpenseRecord, error) {
	var records []ExpenseRecord
	if err := s.expenseScope(ctx, ownerID, q).
		Select("expenses.expense_id, expenses.amount_cents, expenses.note, expenses.payment_date, accounts.account_name").
		Order("expenses.payment_date ASC, expenses.expense_id ASC").
		Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return records, nil
}

func (s *GormStore) SumExpenses(ctx context.Context, ownerID string, q ExpenseQuery) (int64, int64, error) {
	var row struct {
		Total int64
		Count int64
	}
	if err := s.expenseScope(ctx, ownerID, q).
		Select("COALESCE(SUM(expenses.amount_cents), 0) AS total, COUNT(*) AS count").
		Scan(&row).Error; err != nil {
		return 0, 0, fmt.Errorf("sum expenses: %w", err)
	}
	return row.Total, row.Count, nil
}

// expenseScope joins expenses to their accounts and applies the owner and query filters.
func (s *GormStore) expenseScope(ctx context.Context, ownerID string, q ExpenseQuery) *gorm.DB {
	tx := s.db.WithContext(ctx).
		Table("expenses").
		Joins("JOIN accounts ON accounts.account_id = expenses.account_id").
		Where("accounts.user_id = ?", ownerID)
	if q.AccountName != "" {
		tx = tx.Where("accounts.account_name = ?", q.AccountName)
	}
	if !q.After.IsZero() {
		tx = tx.Where("expenses.payment_date > ?", q.After.UTC())
	}
	if !q.Before.IsZero() {
		tx = tx.Where("expenses.payment_date < ?", q.Before.UTC())
	}
	if !q.Since.IsZero() {
		tx = tx.Where("expenses.payment_date >= ?", q.Since.UTC())
	}
	return tx
}

// translate maps gorm errors onto the store's sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	default:
		return err
	}
}
