package helpers

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Abcdef12")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Abcdef12" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CompareHashAndPassword(hash, "Abcdef12") {
		t.Fatal("matching password should compare true")
	}
	if CompareHashAndPassword(hash, "Wrong123") {
		t.Fatal("wrong password should compare false")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	a, err := HashPassword("Abcdef12")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("Abcdef12")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of one password should differ")
	}
}
