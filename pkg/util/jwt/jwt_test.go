package jwt

import (
	"strings"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	Init("unit-test-secret", 15, 168)

	token, err := GenerateAccessToken("U12345")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "U12345" {
		t.Fatalf("userID = %s, want U12345", claims.UserID)
	}
	if claims.Subject != "access_token" {
		t.Fatalf("subject = %s, want access_token", claims.Subject)
	}
	if claims.TokenID != "" {
		t.Fatal("access tokens carry no tokenID")
	}
}

func TestRefreshTokenCarriesTokenID(t *testing.T) {
	Init("unit-test-secret", 15, 168)

	token, tokenID, err := GenerateRefreshToken("U12345")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tokenID == "" {
		t.Fatal("tokenID must be set")
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "refresh_token" || claims.TokenID != tokenID {
		t.Fatalf("claims = %+v, want refresh_token with tokenID %s", claims, tokenID)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	Init("unit-test-secret", 15, 168)

	token, err := GenerateAccessToken("U12345")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := ParseToken(tampered); err == nil {
		t.Fatal("tampered signature must not parse")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	Init("secret-one", 15, 168)
	token, err := GenerateAccessToken("U12345")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	Init("secret-two", 15, 168)
	if _, err := ParseToken(token); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
	// Restore for other tests in the package.
	Init("unit-test-secret", 15, 168)
}
