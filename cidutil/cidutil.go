// Package cidutil derives content identifiers for rendered bytes.
//
// Two implementations agree on a render exactly when they agree on its CID,
// so CIDs are the parity fingerprint exchanged with verifying parties.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for unknown codes or bad lengths.
		panic("cidutil: " + err.Error())
	}
	return id.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Matches reports whether s is the CIDv1 (raw + sha2-256) of data. Any valid
// CID encoding of the same multihash and codec matches.
func Matches(s string, data []byte) bool {
	got, err := cid.Decode(s)
	if err != nil || !got.Defined() {
		return false
	}
	want, err := CIDv1RawSHA256CID(data)
	if err != nil {
		return false
	}
	return got.Equals(want)
}
