package helpers

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)

	access, _, err := m.GenerateAccessToken("u-1", "sid-1")
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}
	claims, err := m.ParseAccessToken(access)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "u-1" || claims.SessionID != "sid-1" {
		t.Fatalf("claims = %+v", claims)
	}

	// Access tokens are not valid refresh tokens and vice versa.
	if _, err := m.ParseRefreshToken(access); err == nil {
		t.Fatalf("access token accepted as refresh token")
	}
	refresh, _, err := m.GenerateRefreshToken("u-1", "sid-1")
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}
	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Fatalf("refresh token accepted as access token")
	}
}

func TestJWTExpiry(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, -time.Minute)
	token, _, err := m.GenerateAccessToken("u-1", "sid-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(token); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("password stored in plain text")
	}
	if !CompareHashAndPassword(hash, "secret123") {
		t.Fatalf("valid password rejected")
	}
	if CompareHashAndPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
