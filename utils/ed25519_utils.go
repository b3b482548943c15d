package utils

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"
)

func GenerateEd25519KeyPair() (ed25519.PrivateKey, ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// SignEd25519 signs msg directly, ed25519 hashes internally.
func SignEd25519(msg []byte, sk ed25519.PrivateKey) []byte {
	return ed25519.Sign(sk, msg)
}

// VerifyEd25519 reports whether signature is valid for msg under pk. Keys and
// signatures of the wrong size are rejected rather than handed to the
// primitive, which panics on them.
func VerifyEd25519(msg []byte, pk []byte, signature []byte) bool {
	if len(pk) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pk), msg, signature)
}
