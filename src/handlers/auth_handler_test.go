package handlers

import "testing"

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mixed-case email", "Ada.Lovelace@Example.COM", "ada.lovelace@example.com"},
		{"mixed-case username", "AdaL", "adal"},
		{"surrounding whitespace", "  ada@example.com ", "ada@example.com"},
		{"already canonical", "ada", "ada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeIdentifier(tt.in); got != tt.want {
				t.Errorf("normalizeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
