package auth

import (
	"testing"
	"time"

	"github.com/SmartBusLink/SmartBusLink/internal/common/config"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "smartbuslink",
		Audience:  "smartbuslink",
	}

	token, expiresAt, err := GenerateAccessToken(cfg, "driver-1", "driver", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected expiresAt in the future, got %v", expiresAt)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "driver-1" {
		t.Fatalf("expected subject driver-1, got %s", claims.Subject)
	}
	if claims.UserType != "driver" {
		t.Fatalf("expected user_type driver, got %s", claims.UserType)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret-a", Issuer: "smartbuslink"}
	token, _, err := GenerateAccessToken(cfg, "admin-1", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	bad := config.AuthConfig{JWTSecret: "secret-b", Issuer: "smartbuslink"}
	if _, err := ParseAccessToken(bad, token); err == nil {
		t.Fatalf("expected parse to fail with wrong secret")
	}
}

func TestGenerateAccessTokenRequiresSubject(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "s"}
	if _, _, err := GenerateAccessToken(cfg, "", "driver", time.Hour); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
