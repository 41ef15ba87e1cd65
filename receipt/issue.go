package receipt

import (
	"encoding/base64"
	"strconv"

	"clawid.dev/claw/entropy"
	"clawid.dev/claw/keys"
	"clawid.dev/claw/phase"
	"clawid.dev/claw/renderer"
)

// IssueOptions controls receipt signing. A nil Signer issues an unsigned
// receipt.
type IssueOptions struct {
	Signer keys.Signer
	// HashAlg defaults to sha256.
	HashAlg string
}

// Issue renders req and returns the canonical receipt bytes.
func Issue(req renderer.Request, opts IssueOptions) ([]byte, error) {
	return IssueResult(req, renderer.Render(req), opts)
}

// IssueResult builds a receipt for an already computed render of req.
func IssueResult(req renderer.Request, res renderer.Result, opts IssueOptions) ([]byte, error) {
	desc := req.Description
	if desc == "" {
		desc = renderer.DefaultDescription
	}
	secs := []section{
		{name: SectionMeta, pairs: map[string]string{
			"Type":    Type,
			"Version": Version,
		}},
		{name: SectionInput, pairs: map[string]string{
			"Activity-Count":   strconv.FormatUint(req.ActivityCount, 10),
			"Creation-Counter": strconv.FormatUint(req.CreationCounter, 10),
			"Description":      strconv.Quote(desc),
			"Identity-Key":     req.Key.String(),
			"Name":             strconv.Quote(req.Name),
			"Phase":            strconv.FormatUint(uint64(phase.Clamp(req.Phase)), 10),
			"Token-Index":      strconv.FormatUint(req.TokenIndex, 10),
		}},
		{name: SectionOutput, pairs: map[string]string{
			"Entropy":      entropy.Algorithm,
			"Markup-CID":   res.MarkupCID,
			"Metadata-CID": res.MetadataCID,
			"Renderer":     renderer.ID,
		}},
	}
	signed, err := renderSigned(secs)
	if err != nil {
		return nil, err
	}

	if opts.Signer == nil {
		return renderFull(signed, map[string]string{"Signature-Alg": AlgNone})
	}

	hashAlg := opts.HashAlg
	if hashAlg == "" {
		hashAlg = "sha256"
	}
	digest, err := keys.Digest(hashAlg, signed)
	if err != nil {
		return nil, wrapError(KindCrypto, "CLAW-RCPT-CRYPTO-201", "unsupported Hash-Alg", err)
	}
	sig, err := opts.Signer.Sign(digest)
	if err != nil {
		return nil, wrapError(KindCrypto, "CLAW-RCPT-CRYPTO-501", "signing failed", err)
	}
	return renderFull(signed, map[string]string{
		"Hash-Alg":      hashAlg,
		"Signature":     base64.StdEncoding.EncodeToString(sig),
		"Signature-Alg": opts.Signer.Alg(),
		"Signer-Key":    opts.Signer.SignerKey(),
	})
}
