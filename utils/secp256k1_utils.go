package utils

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

func GenerateSecp256k1KeyPair() (*btcec.PrivateKey, []byte, error) {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, err
	}
	return sk, sk.PubKey().SerializeCompressed(), nil
}

// SignSecp256k1 returns the DER encoded ECDSA signature of msg's SHA256 digest.
func SignSecp256k1(msg []byte, sk *btcec.PrivateKey) []byte {
	return ecdsa.Sign(sk, SHA256(msg)).Serialize()
}

// VerifySecp256k1 accepts compressed or uncompressed public keys and DER
// encoded signatures.
func VerifySecp256k1(msg []byte, pk []byte, signature []byte) bool {
	pubKey, err := btcec.ParsePubKey(pk)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(SHA256(msg), pubKey)
}
