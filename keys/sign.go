package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

// Signature algorithm names.
const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

// Digest returns hash(message) for hashAlg in {sha256, sha512, sha3-256}.
func Digest(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// Signer signs a receipt digest.
type Signer interface {
	// Alg is the Signature-Alg value.
	Alg() string
	// SignerKey is "<alg>:<base64 public key>".
	SignerKey() string
	// Sign signs a precomputed digest.
	Sign(digest []byte) ([]byte, error)
}

// Ed25519Signer signs with an Ed25519 private key.
type Ed25519Signer struct {
	PrivateKey ed25519.PrivateKey
}

// NewEd25519Signer returns a signer for seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes", ed25519.SeedSize)
	}
	return &Ed25519Signer{PrivateKey: ed25519.NewKeyFromSeed(seed)}, nil
}

func (s *Ed25519Signer) Alg() string { return AlgEd25519 }

func (s *Ed25519Signer) SignerKey() string {
	return AlgEd25519 + ":" + base64.StdEncoding.EncodeToString(s.PrivateKey.Public().(ed25519.PublicKey))
}

func (s *Ed25519Signer) Sign(digest []byte) ([]byte, error) {
	if len(s.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("missing private key")
	}
	return ed25519.Sign(s.PrivateKey, digest), nil
}

// Dilithium3Signer signs with a post-quantum Dilithium3 key.
type Dilithium3Signer struct {
	PublicKey  *mode3.PublicKey
	PrivateKey *mode3.PrivateKey
}

// GenerateDilithium3Signer returns a signer with a fresh keypair read from rand.
func GenerateDilithium3Signer(rand io.Reader) (*Dilithium3Signer, error) {
	pub, priv, err := mode3.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return &Dilithium3Signer{PublicKey: pub, PrivateKey: priv}, nil
}

// NewDilithium3SignerFromSeed derives a Dilithium3 keypair from a 32-byte seed.
func NewDilithium3SignerFromSeed(seed []byte) (*Dilithium3Signer, error) {
	if len(seed) != mode3.SeedSize {
		return nil, fmt.Errorf("dilithium3 seed must be %d bytes", mode3.SeedSize)
	}
	var s [mode3.SeedSize]byte
	copy(s[:], seed)
	pub, priv := mode3.NewKeyFromSeed(&s)
	return &Dilithium3Signer{PublicKey: pub, PrivateKey: priv}, nil
}

func (s *Dilithium3Signer) Alg() string { return AlgDilithium3 }

func (s *Dilithium3Signer) SignerKey() string {
	return AlgDilithium3 + ":" + base64.StdEncoding.EncodeToString(s.PublicKey.Bytes())
}

func (s *Dilithium3Signer) Sign(digest []byte) ([]byte, error) {
	if s.PrivateKey == nil {
		return nil, fmt.Errorf("missing private key")
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(s.PrivateKey, digest, sig)
	return sig, nil
}

// Verify checks sig over digest for a signer key string.
func Verify(signerKey string, digest, sig []byte) error {
	alg, pub, err := ParseSignerKey(signerKey)
	if err != nil {
		return err
	}
	switch alg {
	case AlgEd25519:
		if len(sig) != ed25519.SignatureSize {
			return fmt.Errorf("invalid ed25519 signature length")
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return fmt.Errorf("signature invalid")
		}
		return nil
	case AlgDilithium3:
		if len(sig) != mode3.SignatureSize {
			return fmt.Errorf("invalid dilithium3 signature length")
		}
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return fmt.Errorf("invalid dilithium3 public key: %w", err)
		}
		if !mode3.Verify(&pk, digest, sig) {
			return fmt.Errorf("signature invalid")
		}
		return nil
	default:
		return fmt.Errorf("unsupported signature algorithm: %q", alg)
	}
}
