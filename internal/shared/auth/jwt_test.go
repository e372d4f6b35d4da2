package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner("secret", "dev")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := signer.Sign(Claims{Role: RolePlacementCell, RegisteredClaims: jwt.RegisteredClaims{Subject: "cell-7"}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "cell-7" || claims.Role != RolePlacementCell {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsForeignSecretAndExpiry(t *testing.T) {
	a, _ := NewSigner("alpha", "dev")
	b, _ := NewSigner("beta", "dev")

	token, err := a.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "stu-1"}})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := b.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired, err := a.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "stu-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	if err != nil {
		t.Fatalf("Sign expired: %v", err)
	}
	if _, err := a.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSigner("", "production"); err == nil {
		t.Fatalf("expected error without secret in production")
	}
	s, err := NewSigner("", "dev")
	if err != nil || s == nil {
		t.Fatalf("expected dev fallback signer, got %v", err)
	}
	claims := Claims{}
	if _, err := s.Sign(claims); err == nil {
		t.Fatalf("expected missing sub error")
	}
}
