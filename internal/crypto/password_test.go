package crypto

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("Abcd123!")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "Abcd123!" {
		t.Fatalf("expected hash to differ from plaintext")
	}
	if err := hasher.Check(hash, "Abcd123!"); err != nil {
		t.Fatalf("expected password to match")
	}
	if err := hasher.Check(hash, "wrong"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected password mismatch, got %v", err)
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	first, _ := hasher.Hash("Abcd123!")
	second, _ := hasher.Hash("Abcd123!")
	if first == second {
		t.Fatalf("expected distinct salted hashes")
	}
}

func TestCostOutOfRangeFallsBack(t *testing.T) {
	if got := NewHasher(1).Cost(); got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewHasher(bcrypt.MaxCost + 1).Cost(); got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestCheckMalformedHash(t *testing.T) {
	err := NewHasher(bcrypt.MinCost).Check("not-a-hash", "Abcd123!")
	if err == nil || errors.Is(err, ErrMismatch) {
		t.Fatalf("expected malformed hash error, got %v", err)
	}
}
