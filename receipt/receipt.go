// Package receipt issues and checks render receipts: canonical text records
// that bind a render request to the content identifiers of its output.
//
// A receipt has four sections in fixed order (META, INPUT, OUTPUT, CRYPTO),
// keys sorted within each section, LF line endings and no trailing newline.
// The signature covers the preamble through the blank line that precedes
// CRYPTO. Parse rejects any byte sequence that Issue would not produce.
package receipt

import (
	"errors"
	"strconv"

	"clawid.dev/claw/entropy"
	"clawid.dev/claw/renderer"
)

const (
	Preamble  = "-----BEGIN CLAW RENDER RECEIPT-----"
	Postamble = "-----END CLAW RENDER RECEIPT-----"
)

const (
	SectionMeta   = "META"
	SectionInput  = "INPUT"
	SectionOutput = "OUTPUT"
	SectionCrypto = "CRYPTO"
)

// SectionOrder is the canonical order of receipt sections.
var SectionOrder = []string{SectionMeta, SectionInput, SectionOutput, SectionCrypto}

// META values written by Issue.
const (
	Type    = "render-receipt"
	Version = "1"
)

// AlgNone marks an unsigned receipt.
const AlgNone = "none"

var (
	errEmptyValue    = errors.New("empty value")
	errLeadingSpace  = errors.New("value must not start with a space")
	errNewline       = errors.New("value must not contain newlines")
	errTrailingSpace = errors.New("trailing whitespace forbidden")
)

// Receipt is a parsed receipt.
type Receipt struct {
	Sections map[string]map[string]string
	// Raw is the canonical receipt bytes.
	Raw []byte
	// Signed is the prefix of Raw covered by the signature.
	Signed []byte
}

func (r *Receipt) get(sec, key string) string {
	if r == nil || r.Sections == nil {
		return ""
	}
	return r.Sections[sec][key]
}

func (r *Receipt) MarkupCID() string    { return r.get(SectionOutput, "Markup-CID") }
func (r *Receipt) MetadataCID() string  { return r.get(SectionOutput, "Metadata-CID") }
func (r *Receipt) Renderer() string     { return r.get(SectionOutput, "Renderer") }
func (r *Receipt) Entropy() string      { return r.get(SectionOutput, "Entropy") }
func (r *Receipt) SignatureAlg() string { return r.get(SectionCrypto, "Signature-Alg") }
func (r *Receipt) HashAlg() string      { return r.get(SectionCrypto, "Hash-Alg") }
func (r *Receipt) SignerKey() string    { return r.get(SectionCrypto, "Signer-Key") }

// Request reconstructs the render request recorded in INPUT.
func (r *Receipt) Request() (renderer.Request, error) {
	var req renderer.Request
	in := r.Sections[SectionInput]
	k, err := entropy.ParseKey(in["Identity-Key"])
	if err != nil {
		return req, wrapError(KindInput, "CLAW-RCPT-IN-001", "invalid Identity-Key", err)
	}
	req.Key = k

	nums := []struct {
		key string
		dst *uint64
	}{
		{"Token-Index", &req.TokenIndex},
		{"Creation-Counter", &req.CreationCounter},
		{"Activity-Count", &req.ActivityCount},
	}
	for _, n := range nums {
		v, err := strconv.ParseUint(in[n.key], 10, 64)
		if err != nil {
			return req, wrapError(KindInput, "CLAW-RCPT-IN-002", "invalid "+n.key, err)
		}
		*n.dst = v
	}
	p, err := strconv.ParseUint(in["Phase"], 10, 8)
	if err != nil {
		return req, wrapError(KindInput, "CLAW-RCPT-IN-002", "invalid Phase", err)
	}
	req.Phase = uint(p)

	if req.Name, err = strconv.Unquote(in["Name"]); err != nil {
		return req, wrapError(KindInput, "CLAW-RCPT-IN-003", "Name must be a quoted string", err)
	}
	if req.Description, err = strconv.Unquote(in["Description"]); err != nil {
		return req, wrapError(KindInput, "CLAW-RCPT-IN-003", "Description must be a quoted string", err)
	}
	return req, nil
}
