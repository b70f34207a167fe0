package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expense-ledger/internal/forecast"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/models"
	"expense-ledger/internal/store"
	"expense-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// Estimator projects a depletion date from per-day spending totals.
type Estimator interface {
	EstimateDepletionDate(dailyCents []int64, balanceCents int64) (time.Time, error)
}

// LedgerService manages accounts and the expenses recorded against them.
type LedgerService struct {
	store     store.LedgerStore
	estimator Estimator
	now       func() time.Time
	log       *logger.Logger
}

func NewLedgerService(st store.LedgerStore, est Estimator, log *logger.Logger) *LedgerService {
	return &LedgerService{
		store:     st,
		estimator: est,
		now:       time.Now,
		log:       log.WithComponent(logger.ComponentLedger),
	}
}

// WithClock replaces the clock used for payment dates and lookback windows.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// CreateAccount opens an account for ownerID with an opening balance >= 0.
// Names are unique across all users.
func (s *LedgerService) CreateAccount(ctx context.Context, ownerID, name string, balance decimal.Decimal) (models.Account, error) {
	name = normalizeName(name)
	if err := util.ValidateAccountName(name); err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cents, err := util.ToCents(balance)
	if err != nil || cents < 0 {
		return models.Account{}, ErrInvalidAmount
	}

	a := models.Account{AccountName: name, BalanceCents: cents, UserID: ownerID}
	if err := s.store.CreateAccount(ctx, &a); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return models.Account{}, ErrAlreadyExists
		}
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account created", "user_id", ownerID, "account", name, "balance_cents", cents)
	return a, nil
}

// ListAccounts returns the accounts owned by ownerID.
func (s *LedgerService) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	return s.store.ListAccounts(ctx, ownerID)
}

// RecordExpense debits accountName by amount and records the expense, both or neither.
// The account is looked up by name across all users.
func (s *LedgerService) RecordExpense(ctx context.Context, ownerID, accountName string, amount decimal.Decimal, note string) (models.Expense, error) {
	accountName = normalizeName(accountName)
	cents, err := util.ToCents(amount)
	if err != nil || cents <= 0 {
		return models.Expense{}, ErrInvalidAmount
	}
	if err := util.ValidateNote(note); err != nil {
		return models.Expense{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e, err := s.store.Debit(ctx, accountName, cents, note, s.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		return models.Expense{}, ErrAccountNotFound
	case errors.Is(err, store.ErrInsufficientBalance):
		s.log.Debug("expense rejected", "user_id", ownerID, "account", accountName, "amount_cents", cents)
		return models.Expense{}, ErrInsufficientBalance
	case err != nil:
		return models.Expense{}, fmt.Errorf("record expense: %w", err)
	}
	s.log.Info("expense recorded", "user_id", ownerID, "account", accountName, "amount_cents", cents)
	return e, nil
}

// UpdateBalance credits an account owned by ownerID.
func (s *LedgerService) UpdateBalance(ctx context.Context, ownerID, accountName string, amount decimal.Decimal) error {
	accountName = normalizeName(accountName)
	cents, err := util.ToCents(amount)
	if err != nil || cents <= 0 {
		return ErrInvalidAmount
	}
	if err := s.store.Credit(ctx, ownerID, accountName, cents); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update balance: %w", err)
	}
	s.log.Info("balance credited", "user_id", ownerID, "account", accountName, "amount_cents", cents)
	return nil
}

// ExpenseHistory lists ownerID's expenses, optionally for one account.
func (s *LedgerService) ExpenseHistory(ctx context.Context, ownerID, accountName string) ([]store.ExpenseRecord, error) {
	return s.store.ListExpenses(ctx, ownerID, store.ExpenseQuery{AccountName: normalizeName(accountName)})
}

// ExpenseHistoryByDateRange lists ownerID's expenses paid strictly between start and end.
func (s *LedgerService) ExpenseHistoryByDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]store.ExpenseRecord, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	return s.store.ListExpenses(ctx, ownerID, store.ExpenseQuery{After: start, Before: end})
}

// TotalExpense sums ownerID's expenses paid in the last days days.
// ErrNotFound when nothing matches, whether or not accountName exists.
func (s *LedgerService) TotalExpense(ctx context.Context, ownerID string, days int, accountName string) (int64, error) {
	if days < 0 {
		return 0, ErrInvalidInput
	}
	accountName = normalizeName(accountName)
	cutoff := s.now().AddDate(0, 0, -days)
	total, count, err := s.store.SumExpenses(ctx, ownerID, store.ExpenseQuery{AccountName: accountName, Since: cutoff})
	if err != nil {
		return 0, fmt.Errorf("total expense: %w", err)
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	return total, nil
}

// EstimateDepletion projects when ownerID's account runs out of money.
// Returns forecast.ErrInsufficientData with fewer than two days of spending.
func (s *LedgerService) EstimateDepletion(ctx context.Context, ownerID, accountName string) (time.Time, error) {
	accountName = normalizeName(accountName)
	account, err := s.store.FindOwnedAccount(ctx, ownerID, accountName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return time.Time{}, ErrAccountNotFound
		}
		return time.Time{}, fmt.Errorf("find account: %w", err)
	}
	records, err := s.store.ListExpenses(ctx, ownerID, store.ExpenseQuery{AccountName: accountName})
	if err != nil {
		return time.Time{}, fmt.Errorf("load expenses: %w", err)
	}

	// calendar days are local days
	points := make([]forecast.Point, len(records))
	for i, r := range records {
		points[i] = forecast.Point{Cents: r.AmountCents, At: r.PaymentDate.Local()}
	}
	daily := forecast.BucketByDate(points)

	date, err := s.estimator.EstimateDepletionDate(daily, account.BalanceCents)
	if err != nil {
		return time.Time{}, err
	}
	s.log.Debug("depletion estimated", "user_id", ownerID, "account", accountName, "days_of_data", len(daily), "date", date)
	return date, nil
}

// normalizeName is applied to every account name crossing the service
// boundary, so lookups match the name stored at creation.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
