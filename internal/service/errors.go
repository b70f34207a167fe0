// Package service holds the business rules for users, accounts and expenses.
// Business outcomes are reported as the sentinel errors below; anything else
// is an infrastructure failure.
package service

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidRange        = errors.New("invalid range")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUserNotFound        = errors.New("user not found")
	ErrBadCredential       = errors.New("bad credential")
)
