package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHasSensitiveParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"plain query", "/api/transactions?type=EXPENSE", false},
		{"email param", "/api/users?email=a@b.com", true},
		{"mixed case", "/api/users?UserEmail=a@b.com", true},
		{"birth date", "/api/users?date_of_birth=1990-01-01", true},
		{"card number", "/api/pay?card_number=4111", true},
		{"no params", "/api/health", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			if got := HasSensitiveParams(r); got != tt.want {
				t.Errorf("HasSensitiveParams(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}

	t.Run("urlencoded form field", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/users", strings.NewReader("phone_number=5551234&note=x"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if !HasSensitiveParams(r) {
			t.Error("expected sensitive form field to be detected")
		}
	})

	t.Run("plain form body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/categories", strings.NewReader("name=Groceries"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if HasSensitiveParams(r) {
			t.Error("expected plain form body to pass")
		}
	})

	t.Run("json body is not parsed", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/users", strings.NewReader(`{"email":"a@b.com"}`))
		r.Header.Set("Content-Type", "application/json")
		if HasSensitiveParams(r) {
			t.Error("expected JSON body to be ignored")
		}
	})
}

func TestClientIP(t *testing.T) {
	t.Run("x-forwarded-for wins", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		r.Header.Set("X-Real-IP", "198.51.100.2")
		if got := ClientIP(r); got != "203.0.113.9" {
			t.Errorf("expected first forwarded hop, got %q", got)
		}
	})

	t.Run("x-real-ip fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "198.51.100.2")
		if got := ClientIP(r); got != "198.51.100.2" {
			t.Errorf("expected X-Real-IP, got %q", got)
		}
	})

	t.Run("remote addr fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.5:4312"
		if got := ClientIP(r); got != "192.0.2.5" {
			t.Errorf("expected host from RemoteAddr, got %q", got)
		}
	})
}

func TestStatusRecorderDefaultsTo200(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	if _, err := rec.Write([]byte("ok")); err != nil {
		t.Fatal(err)
	}
	if rec.status != 200 {
		t.Errorf("expected implicit 200, got %d", rec.status)
	}
	if rec.size != 2 {
		t.Errorf("expected size 2, got %d", rec.size)
	}
}
