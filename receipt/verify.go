package receipt

import (
	"encoding/base64"
	"strings"

	"clawid.dev/claw/cidutil"
	"clawid.dev/claw/entropy"
	"clawid.dev/claw/keys"
	"clawid.dev/claw/renderer"
)

// Verify checks the receipt signature. Unsigned receipts fail with
// CLAW-RCPT-CRYPTO-100.
func (r *Receipt) Verify() error {
	if r == nil {
		return newError(KindCrypto, "CLAW-RCPT-CRYPTO-001", "nil receipt")
	}
	// Re-parse so mutated fields cannot bypass canonicalization.
	parsed, err := Parse(r.Raw)
	if err != nil {
		return err
	}
	r = parsed

	if r.SignatureAlg() == AlgNone {
		return newError(KindCrypto, "CLAW-RCPT-CRYPTO-100", "receipt is unsigned")
	}
	signerAlg, _, ok := strings.Cut(r.SignerKey(), ":")
	if !ok {
		return newError(KindCrypto, "CLAW-RCPT-CRYPTO-111", "invalid Signer-Key encoding")
	}
	if signerAlg != r.SignatureAlg() {
		return newError(KindCrypto, "CLAW-RCPT-CRYPTO-121", "Signer-Key alg does not match Signature-Alg")
	}
	sig, err := base64.StdEncoding.DecodeString(r.get(SectionCrypto, "Signature"))
	if err != nil {
		return wrapError(KindCrypto, "CLAW-RCPT-CRYPTO-112", "invalid Signature base64", err)
	}
	digest, err := keys.Digest(r.HashAlg(), r.Signed)
	if err != nil {
		return wrapError(KindCrypto, "CLAW-RCPT-CRYPTO-201", "unsupported Hash-Alg", err)
	}
	if err := keys.Verify(r.SignerKey(), digest, sig); err != nil {
		return wrapError(KindCrypto, "CLAW-RCPT-CRYPTO-401", "signature invalid", err)
	}
	return nil
}

// Check re-renders the recorded request and compares the output identifiers.
func (r *Receipt) Check() error {
	if r == nil {
		return newError(KindMismatch, "CLAW-RCPT-CHECK-001", "nil receipt")
	}
	if got := r.Renderer(); got != renderer.ID {
		return newError(KindMismatch, "CLAW-RCPT-CHECK-002", "receipt was issued by renderer "+got)
	}
	if got := r.Entropy(); got != entropy.Algorithm {
		return newError(KindMismatch, "CLAW-RCPT-CHECK-003", "receipt uses entropy algorithm "+got)
	}
	req, err := r.Request()
	if err != nil {
		return err
	}
	res := renderer.Render(req)
	if !cidutil.Matches(r.MarkupCID(), []byte(res.Markup)) {
		return newError(KindMismatch, "CLAW-RCPT-CHECK-010", "markup CID mismatch")
	}
	if !cidutil.Matches(r.MetadataCID(), res.Metadata) {
		return newError(KindMismatch, "CLAW-RCPT-CHECK-011", "metadata CID mismatch")
	}
	return nil
}
