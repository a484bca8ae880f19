package util

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken("secret", "sid-123", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.SessionID != "sid-123" || claims.Subject != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, _ := GenerateToken("secret", "sid", "admin", time.Hour)
	if _, err := ParseToken("other", tok); err == nil {
		t.Error("token signed with another secret should fail")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-jwt"); err == nil {
		t.Error("garbage should fail")
	}
}
