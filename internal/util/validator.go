package util

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// dateTimeLayouts are tried in order when parsing query dates.
var dateTimeLayouts = []string{
	time.RFC3339,          // 2025-12-03T00:00:00+08:00
	"2006-01-02T15:04:05", // 2025-12-03T00:00:00
	"2006-01-02",          // 2025-12-03
}

// ParseDateTime parses s using the accepted layouts, in local time when s carries no zone.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format %q", s)
}

// ValidateAccountName checks that an account name is present and reasonably sized.
func ValidateAccountName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("account name is empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("account name too long, max 128 characters")
	}
	return nil
}

// ValidateUsername checks the username used as the token subject.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is empty")
	}
	if len(username) > 64 {
		return fmt.Errorf("username too long, max 64 characters")
	}
	return nil
}

// ValidateEmail checks the address is a bare RFC 5322 address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// ValidateNote limits the free-text note stored with an expense.
func ValidateNote(note string) error {
	if len(note) > 255 {
		return fmt.Errorf("note too long, max 255 characters")
	}
	return nil
}
