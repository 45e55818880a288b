package alerts

import (
	"strings"
	"testing"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestUtilization(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		spent  string
		want   string
	}{
		{"half spent", "1000", "500", "50"},
		{"over budget", "200", "250", "125"},
		{"zero amount", "0", "100", "0"},
		{"rounds to two places", "300", "100", "33.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Utilization(dec(tt.amount), dec(tt.spent))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Utilization(%s, %s) = %s, want %s", tt.amount, tt.spent, got, tt.want)
			}
		})
	}
}

func TestCrossedThresholds(t *testing.T) {
	budget := func(enabled bool, warning, critical *decimal.Decimal) *models.Budget {
		return &models.Budget{
			Name:              "Groceries",
			Amount:            dec("1000"),
			AlertEnabled:      enabled,
			WarningThreshold:  warning,
			CriticalThreshold: critical,
		}
	}

	t.Run("below both thresholds", func(t *testing.T) {
		crossings := CrossedThresholds(budget(true, decPtr("80"), decPtr("100")), dec("50"))
		if len(crossings) != 0 {
			t.Errorf("expected no alerts below thresholds, got %v", crossings)
		}
	})

	t.Run("warning crossed", func(t *testing.T) {
		crossings := CrossedThresholds(budget(true, decPtr("80"), decPtr("100")), dec("85"))
		if len(crossings) != 1 || crossings[0].AlertType != models.AlertWarning {
			t.Fatalf("expected one warning alert, got %v", crossings)
		}
		if !crossings[0].Threshold.Equal(dec("80")) {
			t.Errorf("expected threshold 80, got %s", crossings[0].Threshold)
		}
	})

	t.Run("both thresholds crossed at once", func(t *testing.T) {
		crossings := CrossedThresholds(budget(true, decPtr("80"), decPtr("100")), dec("110"))
		if len(crossings) != 2 {
			t.Fatalf("expected warning and critical alerts, got %v", crossings)
		}
		if crossings[0].AlertType != models.AlertWarning || !crossings[0].Threshold.Equal(dec("80")) {
			t.Errorf("expected warning at 80 first, got %+v", crossings[0])
		}
		if crossings[1].AlertType != models.AlertCritical || !crossings[1].Threshold.Equal(dec("100")) {
			t.Errorf("expected critical at 100 second, got %+v", crossings[1])
		}
	})

	t.Run("critical only when warning unset", func(t *testing.T) {
		crossings := CrossedThresholds(budget(true, nil, decPtr("100")), dec("110"))
		if len(crossings) != 1 || crossings[0].AlertType != models.AlertCritical {
			t.Fatalf("expected one critical alert, got %v", crossings)
		}
	})

	t.Run("exactly at threshold fires", func(t *testing.T) {
		crossings := CrossedThresholds(budget(true, decPtr("80"), nil), dec("80"))
		if len(crossings) != 1 || crossings[0].AlertType != models.AlertWarning {
			t.Errorf("expected warning at exact threshold, got %v", crossings)
		}
	})

	t.Run("alerts disabled", func(t *testing.T) {
		crossings := CrossedThresholds(budget(false, decPtr("80"), decPtr("100")), dec("110"))
		if len(crossings) != 0 {
			t.Errorf("expected no alerts when alerts are disabled, got %v", crossings)
		}
	})

	t.Run("no thresholds configured", func(t *testing.T) {
		crossings := CrossedThresholds(budget(true, nil, nil), dec("110"))
		if len(crossings) != 0 {
			t.Errorf("expected no alerts without thresholds, got %v", crossings)
		}
	})
}

func TestAlertMessageNamesConfiguredThreshold(t *testing.T) {
	b := &models.Budget{Name: "Dining Out"}
	msg := AlertMessage(b, models.AlertWarning, dec("80"), dec("85.5"))
	if !strings.Contains(msg, "Dining Out") {
		t.Errorf("message missing budget name: %q", msg)
	}
	if !strings.Contains(msg, "85.50%") {
		t.Errorf("message missing live utilization: %q", msg)
	}
	if !strings.Contains(msg, "warning threshold of 80%") {
		t.Errorf("message missing configured threshold: %q", msg)
	}
}

func TestSummaryEmailBodyListsAlerts(t *testing.T) {
	alerts := []models.BudgetAlert{
		{AlertType: models.AlertWarning, Message: "Budget 'A' has reached 85.00% of its limit, crossing the warning threshold of 80%"},
		{AlertType: models.AlertCritical, Message: "Budget 'B' has reached 120.00% of its limit, crossing the critical threshold of 100%"},
	}
	body := SummaryEmailBody("Ada", alerts)
	if !strings.Contains(body, "Hi Ada") {
		t.Errorf("expected greeting with first name, got %q", body)
	}
	if !strings.Contains(body, "2 budget alerts") {
		t.Errorf("expected alert count in body, got %q", body)
	}
	if !strings.Contains(body, "[CRITICAL]") || !strings.Contains(body, "[WARNING]") {
		t.Errorf("expected alert types in body, got %q", body)
	}
}
