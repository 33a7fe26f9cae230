package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := CheckPassword(hash, "secret123")
	if err != nil || !ok {
		t.Errorf("CheckPassword(correct) = %v, %v; want true, nil", ok, err)
	}

	ok, err = CheckPassword(hash, "wrong")
	if err != nil || ok {
		t.Errorf("CheckPassword(wrong) = %v, %v; want false, nil", ok, err)
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	ok, err := CheckPassword("not-a-bcrypt-hash", "secret123")
	if ok {
		t.Error("expected mismatch for malformed hash")
	}
	if err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same-password")
	b, _ := HashPassword("same-password")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestBurnPasswordCheck(t *testing.T) {
	if len(dummyHash) == 0 {
		t.Fatal("dummy hash was not initialised")
	}
	BurnPasswordCheck("anything")
}
