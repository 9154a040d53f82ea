package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	id := uuid.New()
	token, err := GenerateToken(id, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateAndGetClaims(token, "secret")
	if err != nil {
		t.Fatalf("ValidateAndGetClaims() error = %v", err)
	}
	got, err := UserID(claims)
	if err != nil {
		t.Fatalf("UserID() error = %v", err)
	}
	if got != id {
		t.Errorf("expected %s, got %s", id, got)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _ := GenerateToken(uuid.New(), "secret", time.Hour)
	if _, err := ValidateAndGetClaims(token, "other"); err == nil {
		t.Error("expected a signature error")
	}
}

func TestNonPositiveValidityUsesDefault(t *testing.T) {
	token, _ := GenerateToken(uuid.New(), "secret", -time.Hour)
	if _, err := ValidateAndGetClaims(token, "secret"); err != nil {
		t.Fatalf("expected default validity, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	claims := jwtlib.MapClaims{"id": uuid.New().String(), "exp": time.Now().Add(-time.Minute).Unix()}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := ValidateAndGetClaims(token, "secret"); err == nil {
		t.Error("expected an expiry error")
	}
}

func TestGenerateTokenNeedsSecret(t *testing.T) {
	if _, err := GenerateToken(uuid.New(), "", time.Hour); err == nil {
		t.Error("expected an error without a secret")
	}
}
