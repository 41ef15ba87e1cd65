// Package keys provides the signing keys used to issue render receipts.
//
// Stable:
//   - Signer-key string formatting ("<alg>:<base64 public key>") and
//     deterministic role-seed derivation.
//
// Keys are never persisted by this package; callers supply seeds from flags
// or the environment.
package keys
