package crypto

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("hash must not equal the input")
	}
	if !h.Compare(hash, "secret1") {
		t.Fatalf("expected match")
	}
	if h.Compare(hash, "secret2") {
		t.Fatalf("expected mismatch")
	}
}

func TestNewBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	if h := NewBcryptHasher(99); h.cost != DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
