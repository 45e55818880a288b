package util

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

func ValidateEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func ValidateUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile("[a-z]").MatchString(password)
	hasUpper := regexp.MustCompile("[A-Z]").MatchString(password)
	hasDigit := regexp.MustCompile("[0-9]").MatchString(password)
	hasSpecial := regexp.MustCompile(`[^A-Za-z0-9]`).MatchString(password)

	return hasLower && hasUpper && hasDigit && hasSpecial
}

// ValidateAmount accepts positive amounts only.
func ValidateAmount(amount decimal.Decimal) bool {
	return amount.IsPositive()
}

// ValidateHexColor accepts empty (color is optional) or #RGB / #RRGGBB.
func ValidateHexColor(color string) bool {
	if color == "" {
		return true
	}
	return hexColorRe.MatchString(color)
}

// ValidateThresholds checks budget alert thresholds: each must be
// non-negative when set, and warning cannot exceed critical.
func ValidateThresholds(warning, critical *decimal.Decimal) bool {
	if warning != nil && warning.IsNegative() {
		return false
	}
	if critical != nil && critical.IsNegative() {
		return false
	}
	if warning != nil && critical != nil && warning.GreaterThan(*critical) {
		return false
	}
	return true
}

// ValidateTransactionType accepts the two ledger entry types.
func ValidateTransactionType(t string) bool {
	return t == "EXPENSE" || t == "INCOME"
}
