package service

import (
	"errors"
	"testing"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")

	token, err := svc.GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	claims, err := svc.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken: %v", err)
	}
	if claims.SessionID != "session-123" {
		t.Fatalf("session id = %q, want session-123", claims.SessionID)
	}
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret")
	if _, err := svc.ValidateSessionToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ValidateSessionToken = %v, want ErrInvalidToken", err)
	}
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthService("secret-a").GenerateSessionToken("s1")
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	if _, err := NewAuthService("secret-b").ValidateSessionToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ValidateSessionToken = %v, want ErrInvalidToken", err)
	}
}
