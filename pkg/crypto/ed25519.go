package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// KeyPair holds a hex-encoded ed25519 keypair.
type KeyPair struct {
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// GenerateKeyPair creates a new ed25519 keypair, hex-encoded with 0x prefix.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return &KeyPair{
		PublicKey:  hexutil.Encode(pub),
		PrivateKey: hexutil.Encode(priv),
	}, nil
}

// Sign produces a detached hex-encoded signature over msg.
func Sign(privHex string, msg []byte) (string, error) {
	priv, err := hexutil.Decode(privHex)
	if err != nil {
		return "", fmt.Errorf("invalid private key encoding: %w", err)
	}
	if len(priv) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("invalid private key length %d", len(priv))
	}
	return hexutil.Encode(ed25519.Sign(ed25519.PrivateKey(priv), msg)), nil
}

// VerifySignature checks a detached ed25519 signature over msg. It fails
// closed: malformed key or signature encodings report false rather than an
// error, so a bad encoding can never bypass the check.
func VerifySignature(pubHex string, msg []byte, sigHex string) bool {
	pub, err := hexutil.Decode(pubHex)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	sig, err := hexutil.Decode(sigHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}
