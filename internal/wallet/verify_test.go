package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestEd25519Verifier(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	message := []byte(SignInMessage)
	sig := ed25519.Sign(priv, message)

	pubHex := hex.EncodeToString(pub)
	sigB64 := base64.StdEncoding.EncodeToString(sig)

	v := Ed25519Verifier{}

	if err := v.Verify(message, pubHex, sigB64); err != nil {
		t.Fatalf("valid proof rejected: %v", err)
	}

	if err := v.Verify([]byte("different message"), pubHex, sigB64); err == nil {
		t.Fatal("signature over wrong message accepted")
	}

	if err := v.Verify(message, "zz-not-hex", sigB64); err == nil {
		t.Fatal("malformed public key accepted")
	}

	if err := v.Verify(message, hex.EncodeToString(pub[:16]), sigB64); err == nil {
		t.Fatal("truncated public key accepted")
	}

	if err := v.Verify(message, pubHex, "!!!"); err == nil {
		t.Fatal("malformed signature accepted")
	}
}

func TestPermissiveVerifier(t *testing.T) {
	v := PermissiveVerifier{}

	if err := v.Verify([]byte(SignInMessage), "any-key", ""); err != nil {
		t.Fatalf("permissive verifier rejected proof: %v", err)
	}
	if err := v.Verify([]byte(SignInMessage), "", ""); err == nil {
		t.Fatal("empty public key accepted")
	}
}

func TestNewSelectsVerifier(t *testing.T) {
	if _, ok := New(true).(Ed25519Verifier); !ok {
		t.Fatal("enabled verification should use the ed25519 verifier")
	}
	if _, ok := New(false).(PermissiveVerifier); !ok {
		t.Fatal("disabled verification should use the permissive stub")
	}
}
