package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	adminID := uuid.New()
	secret := "test-secret"

	tok, err := Generate(adminID, secret, time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := Validate(tok, secret)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.AdminID != adminID {
		t.Errorf("expected admin id %s, got %s", adminID, claims.AdminID)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := Generate(uuid.New(), "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := Validate(tok, "wrong-secret"); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestValidate_Expired(t *testing.T) {
	tok, err := Generate(uuid.New(), "secret", -time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := Validate(tok, "secret"); err == nil {
		t.Fatal("expected validation to fail for expired token")
	}
}

func TestValidate_Garbage(t *testing.T) {
	if _, err := Validate("not.a.token", "secret"); err == nil {
		t.Fatal("expected validation to fail for malformed token")
	}
}
