// Package entropy derives bounded integers from an identity key.
//
// Two derivation paths exist. Cheap, key-only values read a fixed byte of the
// key. Per-token values hash the packed inputs with Keccak-256 and reduce the
// digest, optionally after a right shift, modulo the wanted range.
//
// The hash function and the packing are part of the render contract: the same
// key must forever produce the same art. Changing either is a breaking change
// that needs a new Algorithm label.
package entropy

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm names the digest and packing scheme used by Hash.
const Algorithm = "keccak256-packed-v1"

// KeySize is the length of an identity key in bytes.
const KeySize = 20

var (
	ErrKeyLength = errors.New("entropy: identity key must be 20 bytes")
	ErrKeyHex    = errors.New("entropy: identity key is not valid hex")
)

// Key is the 20-byte identity key that roots all derived randomness.
type Key [KeySize]byte

// ParseKey parses a 40-character hex key with an optional 0x prefix.
func ParseKey(s string) (Key, error) {
	var k Key
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != hex.EncodedLen(KeySize) {
		return k, ErrKeyLength
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, ErrKeyHex
	}
	copy(k[:], b)
	return k, nil
}

// KeyFromBytes copies b into a Key. b must be exactly KeySize bytes.
func KeyFromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != KeySize {
		return k, ErrKeyLength
	}
	copy(k[:], b)
	return k, nil
}

// String returns the key as lowercase 0x-prefixed hex.
func (k Key) String() string {
	return "0x" + hex.EncodeToString(k[:])
}

// Byte returns the key byte at a fixed offset. Offsets outside the key are a
// programming error.
func (k Key) Byte(offset int) uint {
	if offset < 0 || offset >= KeySize {
		panic("entropy: key offset out of range")
	}
	return uint(k[offset])
}

// ByteMod returns k[offset] mod n.
func (k Key) ByteMod(offset int, n uint) uint {
	return k.Byte(offset) % n
}

// Word returns k[hi]*256 + k[lo].
func (k Key) Word(hi, lo int) uint {
	return k.Byte(hi)*256 + k.Byte(lo)
}

// Salt is one packed hash input following the key.
type Salt interface {
	pack(dst []byte) []byte
}

type uintSalt uint64

func (u uintSalt) pack(dst []byte) []byte {
	var word [32]byte
	binary.BigEndian.PutUint64(word[24:], uint64(u))
	return append(dst, word[:]...)
}

type stringSalt string

func (s stringSalt) pack(dst []byte) []byte {
	return append(dst, s...)
}

// Uint packs n as a 32-byte big-endian word.
func Uint(n uint64) Salt { return uintSalt(n) }

// String packs s as its raw bytes, with no length prefix.
func String(s string) Salt { return stringSalt(s) }

// Digest is a 256-bit big-endian hash output.
type Digest [32]byte

// Hash returns Keccak-256(key ++ salts...) using packed encoding.
func Hash(k Key, salts ...Salt) Digest {
	buf := make([]byte, 0, KeySize+32*len(salts))
	buf = append(buf, k[:]...)
	for _, s := range salts {
		buf = s.pack(buf)
	}
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(buf)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Mod returns digest mod n, treating the digest as one unsigned integer.
func (d Digest) Mod(n uint64) uint64 {
	return d.Field(0, n)
}

// Field returns (digest >> shift) mod n.
func (d Digest) Field(shift uint, n uint64) uint64 {
	if n == 0 {
		panic("entropy: modulus must be positive")
	}
	v := new(big.Int).SetBytes(d[:])
	v.Rsh(v, shift)
	return v.Mod(v, new(big.Int).SetUint64(n)).Uint64()
}

// Reader draws successive fields from one digest, shifting 8 more bits for
// each value so that values drawn from the same digest are decorrelated.
type Reader struct {
	d     Digest
	shift uint
}

// NewReader returns a Reader positioned at bit offset 0.
func NewReader(d Digest) *Reader {
	return &Reader{d: d}
}

// Next returns the next field reduced mod n.
func (r *Reader) Next(n uint64) uint {
	v := r.d.Field(r.shift, n)
	r.shift += 8
	return uint(v)
}
