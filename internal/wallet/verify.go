package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// SignInMessage is the fixed message a wallet signs to prove possession of
// its private key during sign-in.
const SignInMessage = "Sign into mechanical turks"

// Verifier proves possession of the private key behind a wallet public key.
type Verifier interface {
	Verify(message []byte, publicKey, signature string) error
}

// New selects the verifier. With verification enabled sign-in fails closed on
// a bad proof; disabled is for development only.
func New(enabled bool) Verifier {
	if enabled {
		return Ed25519Verifier{}
	}
	return PermissiveVerifier{}
}

// Ed25519Verifier checks an ed25519 detached signature. The public key is
// hex-encoded, the signature base64-encoded.
type Ed25519Verifier struct{}

func (Ed25519Verifier) Verify(message []byte, publicKey, signature string) error {
	pubKeyBytes, err := hex.DecodeString(publicKey)
	if err != nil {
		return fmt.Errorf("invalid public key format: %w", err)
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return errors.New("invalid public key size")
	}

	signatureBytes, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("invalid signature format: %w", err)
	}

	if !ed25519.Verify(pubKeyBytes, message, signatureBytes) {
		return errors.New("invalid signature")
	}
	return nil
}

// PermissiveVerifier accepts any proof for a non-empty public key.
type PermissiveVerifier struct{}

func (PermissiveVerifier) Verify(message []byte, publicKey, signature string) error {
	if publicKey == "" {
		return errors.New("empty public key")
	}
	return nil
}
