package util

import (
	"strings"
	"testing"
)

func TestEncryptFieldRoundTrip(t *testing.T) {
	values := []string{"12.34", "0.01", "9999999.99", "grocery run, cash back"}

	for _, v := range values {
		enc, err := EncryptField("test-secret", v)
		if err != nil {
			t.Fatalf("EncryptField(%q) error = %v", v, err)
		}
		if enc == v {
			t.Errorf("EncryptField(%q) returned plaintext", v)
		}

		dec, err := DecryptField("test-secret", enc)
		if err != nil {
			t.Fatalf("DecryptField error = %v", err)
		}
		if dec != v {
			t.Errorf("round trip = %q, want %q", dec, v)
		}
	}
}

func TestEncryptFieldEmpty(t *testing.T) {
	enc, err := EncryptField("test-secret", "")
	if err != nil || enc != "" {
		t.Errorf("EncryptField(\"\") = %q, %v, want \"\", nil", enc, err)
	}
}

func TestEncryptFieldNonceVaries(t *testing.T) {
	a, _ := EncryptField("test-secret", "42.00")
	b, _ := EncryptField("test-secret", "42.00")
	if a == b {
		t.Error("two encryptions of the same value produced identical ciphertext")
	}
}

func TestDecryptFieldWrongKey(t *testing.T) {
	enc, _ := EncryptField("key-one", "42.00")
	if _, err := DecryptField("key-two", enc); err == nil {
		t.Error("DecryptField with wrong key error = nil, want error")
	}
}

func TestDecryptFieldGarbage(t *testing.T) {
	if _, err := DecryptField("test-secret", "not base64!!"); err == nil {
		t.Error("DecryptField(garbage) error = nil, want error")
	}
	if _, err := DecryptField("test-secret", "YWJj"); err == nil {
		t.Error("DecryptField(short ciphertext) error = nil, want error")
	}
}

func TestHashValue(t *testing.T) {
	h := HashValue("user@example.com")
	if len(h) != 64 {
		t.Errorf("HashValue length = %d, want 64", len(h))
	}
	if h != strings.ToLower(h) {
		t.Error("HashValue should be lowercase hex")
	}
	if h == HashValue("other@example.com") {
		t.Error("distinct inputs hashed to the same digest")
	}
}
