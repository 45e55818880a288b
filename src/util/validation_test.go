package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	invalid := []string{"", "no-at", "@missing.local", "user@host"}

	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Errorf("ValidateEmail(%q) = true, want false", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short1!") {
		t.Error("short password accepted")
	}
	if ValidatePassword("alllowercase1!") {
		t.Error("password without uppercase accepted")
	}
	if !ValidatePassword("Str0ng!pass") {
		t.Error("valid password rejected")
	}
}

func TestValidateAmount(t *testing.T) {
	if !ValidateAmount(decimal.NewFromFloat(0.01)) {
		t.Error("0.01 rejected")
	}
	if ValidateAmount(decimal.Zero) {
		t.Error("zero accepted")
	}
	if ValidateAmount(decimal.NewFromInt(-5)) {
		t.Error("negative accepted")
	}
}

func TestValidateHexColor(t *testing.T) {
	for _, c := range []string{"", "#FF0000", "#abc"} {
		if !ValidateHexColor(c) {
			t.Errorf("ValidateHexColor(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"FF0000", "#GG0000", "#12345"} {
		if ValidateHexColor(c) {
			t.Errorf("ValidateHexColor(%q) = true, want false", c)
		}
	}
}

func TestValidateThresholds(t *testing.T) {
	d := func(f float64) *decimal.Decimal {
		v := decimal.NewFromFloat(f)
		return &v
	}

	if !ValidateThresholds(d(80), d(100)) {
		t.Error("80/100 rejected")
	}
	if !ValidateThresholds(nil, nil) {
		t.Error("unset thresholds rejected")
	}
	if !ValidateThresholds(d(90), nil) {
		t.Error("warning-only rejected")
	}
	if ValidateThresholds(d(-1), d(100)) {
		t.Error("negative warning accepted")
	}
	if ValidateThresholds(d(110), d(100)) {
		t.Error("warning above critical accepted")
	}
}

func TestValidateTransactionType(t *testing.T) {
	if !ValidateTransactionType("EXPENSE") || !ValidateTransactionType("INCOME") {
		t.Error("valid type rejected")
	}
	if ValidateTransactionType("expense") || ValidateTransactionType("TRANSFER") {
		t.Error("invalid type accepted")
	}
}
