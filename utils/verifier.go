package utils

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const (
	SchemeRSA       = "rsa"
	SchemeEd25519   = "ed25519"
	SchemeSecp256k1 = "secp256k1"
)

var ErrUnknownScheme = errors.New("unknown signature scheme")

// Verifier tells whether signature authenticates msg under the credential
// publicKey. It never fails loudly: anything wrong is just false.
type Verifier interface {
	Verify(publicKey, msg, signature []byte) bool
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(publicKey, msg, signature []byte) bool

func (f VerifierFunc) Verify(publicKey, msg, signature []byte) bool {
	return f(publicKey, msg, signature)
}

// RSAVerifier checks RSA-PSS signatures over SHA256, keys in PKIX form.
type RSAVerifier struct{}

func (RSAVerifier) Verify(publicKey, msg, signature []byte) bool {
	pk := BytesToPublicKey(publicKey)
	if pk == nil {
		return false
	}
	return Verify(msg, pk, signature)
}

type Ed25519Verifier struct{}

func (Ed25519Verifier) Verify(publicKey, msg, signature []byte) bool {
	return VerifyEd25519(msg, publicKey, signature)
}

type Secp256k1Verifier struct{}

func (Secp256k1Verifier) Verify(publicKey, msg, signature []byte) bool {
	return VerifySecp256k1(msg, publicKey, signature)
}

// NewVerifier returns the verifier for the named scheme.
func NewVerifier(scheme string) (Verifier, error) {
	switch scheme {
	case SchemeRSA:
		return RSAVerifier{}, nil
	case SchemeEd25519:
		return Ed25519Verifier{}, nil
	case SchemeSecp256k1:
		return Secp256k1Verifier{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// SafeVerify runs v and turns a panic inside it into a failed verification.
func SafeVerify(v Verifier, publicKey, msg, signature []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Warn("signature verification panicked")
			ok = false
		}
	}()
	return v.Verify(publicKey, msg, signature)
}
