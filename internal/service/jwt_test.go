package service

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("user id = %d; want 42", userID)
	}
}

func TestParseJWT_RejectsGarbage(t *testing.T) {
	InitJWT("test-secret")

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
