package util

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToCents(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
	}{
		{"12.34", 1234},
		{"12.345", 1235},
		{"12.344", 1234},
		{"0.004", 0},
		{"-40", -4000},
		{"100", 10000},
	}

	for _, tc := range testCases {
		got, err := ToCents(decimal.RequireFromString(tc.in))
		if err != nil {
			t.Errorf("ToCents(%s) error = %v, want nil", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ToCents(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToCents_TooLarge(t *testing.T) {
	if _, err := ToCents(decimal.New(1, 13)); err == nil {
		t.Error("ToCents(1e13) error = nil, want error")
	}
}

func TestFormatCents(t *testing.T) {
	if got := FormatCents(6000); got != "60.00" {
		t.Errorf("FormatCents(6000) = %q, want 60.00", got)
	}
	if got := FormatCents(5); got != "0.05" {
		t.Errorf("FormatCents(5) = %q, want 0.05", got)
	}
	if !FromCents(1234).Equal(decimal.RequireFromString("12.34")) {
		t.Error("FromCents(1234) != 12.34")
	}
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(map[string]interface{}{"balance": AmountJSON(6000)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"balance":60.00}` {
		t.Errorf("got %s", b)
	}
}
