package receipt

import (
	"bytes"
	"strings"
	"testing"

	"clawid.dev/claw/entropy"
	"clawid.dev/claw/keys"
	"clawid.dev/claw/renderer"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func testRequest(t *testing.T) renderer.Request {
	t.Helper()
	k, err := entropy.ParseKey("0x" + strings.Repeat("a1", entropy.KeySize))
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	return renderer.Request{
		Key:             k,
		TokenIndex:      7,
		CreationCounter: 1234,
		Name:            "alice",
		Phase:           9,
		ActivityCount:   50,
	}
}

func testSigner(t *testing.T) keys.Signer {
	t.Helper()
	seed := bytes.Repeat([]byte{0x11}, 32)
	s, err := keys.NewEd25519Signer(seed)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	return s
}

func TestIssue_UnsignedCanonicalLayout(t *testing.T) {
	req := testRequest(t)
	data, err := Issue(req, IssueOptions{})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	res := renderer.Render(req)
	want := strings.Join([]string{
		Preamble,
		"META",
		"Type: render-receipt",
		"Version: 1",
		"",
		"INPUT",
		"Activity-Count: 50",
		"Creation-Counter: 1234",
		`Description: "` + renderer.DefaultDescription + `"`,
		"Identity-Key: " + req.Key.String(),
		`Name: "alice"`,
		"Phase: 4",
		"Token-Index: 7",
		"",
		"OUTPUT",
		"Entropy: " + entropy.Algorithm,
		"Markup-CID: " + res.MarkupCID,
		"Metadata-CID: " + res.MetadataCID,
		"Renderer: " + renderer.ID,
		"",
		"CRYPTO",
		"Signature-Alg: none",
		Postamble,
	}, "\n")
	if string(data) != want {
		t.Fatalf("unexpected receipt:\n%s\nwant:\n%s", data, want)
	}

	r, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.HasSuffix(r.Signed, []byte("Renderer: "+renderer.ID+"\n\n")) {
		t.Fatalf("signed scope must end after OUTPUT and its separator: %q", r.Signed[len(r.Signed)-40:])
	}
	if err := r.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if err := r.Verify(); RuleID(err) != "CLAW-RCPT-CRYPTO-100" {
		t.Fatalf("expected unsigned error, got %v", err)
	}
}

func TestIssue_Deterministic(t *testing.T) {
	req := testRequest(t)
	a, err := Issue(req, IssueOptions{Signer: testSigner(t)})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	b, err := Issue(req, IssueOptions{Signer: testSigner(t)})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical receipts for identical inputs")
	}
}

func TestSignedReceipt_VerifiesAcrossAlgorithms(t *testing.T) {
	req := testRequest(t)
	pq, err := keys.GenerateDilithium3Signer(&deterministicReader{})
	if err != nil {
		t.Fatalf("GenerateDilithium3Signer: %v", err)
	}
	cases := []struct {
		name    string
		signer  keys.Signer
		hashAlg string
	}{
		{"ed25519-default", testSigner(t), ""},
		{"ed25519-sha512", testSigner(t), "sha512"},
		{"dilithium3-sha3", pq, "sha3-256"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Issue(req, IssueOptions{Signer: tc.signer, HashAlg: tc.hashAlg})
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			r, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if r.SignatureAlg() != tc.signer.Alg() {
				t.Fatalf("Signature-Alg: got %q want %q", r.SignatureAlg(), tc.signer.Alg())
			}
			if err := r.Verify(); err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if err := r.Check(); err != nil {
				t.Fatalf("Check: %v", err)
			}
		})
	}
}

func TestVerify_DetectsTampering(t *testing.T) {
	data, err := Issue(testRequest(t), IssueOptions{Signer: testSigner(t)})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	tampered := bytes.Replace(data, []byte("Activity-Count: 50"), []byte("Activity-Count: 51"), 1)
	r, err := Parse(tampered)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := r.Verify(); RuleID(err) != "CLAW-RCPT-CRYPTO-401" {
		t.Fatalf("expected signature failure, got %v", err)
	}
	// Activity only reaches the metadata document.
	if err := r.Check(); RuleID(err) != "CLAW-RCPT-CHECK-011" {
		t.Fatalf("expected metadata CID mismatch, got %v", err)
	}
}

func TestCheck_DetectsInputMismatch(t *testing.T) {
	data, err := Issue(testRequest(t), IssueOptions{})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	tampered := bytes.Replace(data, []byte("Token-Index: 7"), []byte("Token-Index: 8"), 1)
	r, err := Parse(tampered)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := r.Check(); !IsKind(err, KindMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestCheck_RejectsForeignPipeline(t *testing.T) {
	data, err := Issue(testRequest(t), IssueOptions{})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	cases := []struct {
		name     string
		from, to string
		rule     string
	}{
		{"renderer", "Renderer: " + renderer.ID, "Renderer: claw-renderer-b/1", "CLAW-RCPT-CHECK-002"},
		{"entropy", "Entropy: " + entropy.Algorithm, "Entropy: sha3-256-packed-v2", "CLAW-RCPT-CHECK-003"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Parse(bytes.Replace(data, []byte(tc.from), []byte(tc.to), 1))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			err = r.Check()
			if got := RuleID(err); got != tc.rule {
				t.Fatalf("RuleID: got %q want %q (%v)", got, tc.rule, err)
			}
			if !IsKind(err, KindMismatch) {
				t.Fatalf("expected mismatch kind, got %v", err)
			}
		})
	}
	r, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Entropy() != entropy.Algorithm {
		t.Fatalf("Entropy = %q", r.Entropy())
	}
	if err := r.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestParse_RejectsNonCanonical(t *testing.T) {
	data, err := Issue(testRequest(t), IssueOptions{})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	s := string(data)
	cases := []struct {
		name  string
		input string
		rule  string
	}{
		{"trailing newline", s + "\n", "CLAW-RCPT-CANON-002"},
		{"crlf", strings.ReplaceAll(s, "\n", "\r\n"), "CLAW-RCPT-CANON-001"},
		{"bad preamble", strings.Replace(s, Preamble, "-----BEGIN RECEIPT-----", 1), "CLAW-RCPT-STR-010"},
		{"unsorted keys", strings.Replace(s, "Type: render-receipt\nVersion: 1", "Version: 1\nType: render-receipt", 1), "CLAW-RCPT-CANON-020"},
		{"double blank", strings.Replace(s, "\n\nINPUT", "\n\n\nINPUT", 1), "CLAW-RCPT-CANON-010"},
		{"missing blank", strings.Replace(s, "\n\nINPUT", "\nINPUT", 1), "CLAW-RCPT-STR-030"},
		{"section order", strings.Replace(s, "META\n", "MEDA\n", 1), "CLAW-RCPT-STR-020"},
		{"missing key", strings.Replace(s, "Phase: 4\n", "", 1), "CLAW-RCPT-STR-040"},
		{"trailing space", strings.Replace(s, "Version: 1", "Version: 1 ", 1), "CLAW-RCPT-STR-030"},
		{"unquoted name", strings.Replace(s, `Name: "alice"`, "Name: alice", 1), "CLAW-RCPT-IN-003"},
		{"bad key", strings.Replace(s, "Identity-Key: 0x", "Identity-Key: 0xzz", 1), "CLAW-RCPT-IN-001"},
		{"extra crypto", strings.Replace(s, "Signature-Alg: none", "Hash-Alg: sha256\nSignature-Alg: none", 1), "CLAW-RCPT-CRYPTO-102"},
		{"unknown meta key", strings.Replace(s, "Version: 1\n", "Version: 1\nZz-Extra: 1\n", 1), "CLAW-RCPT-STR-041"},
		{"unknown input key", strings.Replace(s, "Token-Index: 7\n", "Token-Index: 7\nZz-Extra: 1\n", 1), "CLAW-RCPT-STR-041"},
		{"unknown output key", strings.Replace(s, "Renderer: "+renderer.ID+"\n", "Renderer: "+renderer.ID+"\nZz-Extra: 1\n", 1), "CLAW-RCPT-STR-041"},
		{"unsupported version", strings.Replace(s, "Version: 1\n", "Version: 2\n", 1), "CLAW-RCPT-STR-050"},
		{"wrong type", strings.Replace(s, "Type: render-receipt", "Type: mint-receipt", 1), "CLAW-RCPT-STR-050"},
		{"unclamped phase", strings.Replace(s, "Phase: 4\n", "Phase: 9\n", 1), "CLAW-RCPT-CANON-030"},
		{"leading zero", strings.Replace(s, "Token-Index: 7\n", "Token-Index: 007\n", 1), "CLAW-RCPT-CANON-030"},
		{"plus sign", strings.Replace(s, "Activity-Count: 50\n", "Activity-Count: +50\n", 1), "CLAW-RCPT-IN-002"},
		{"uppercase key prefix", strings.Replace(s, "Identity-Key: 0x", "Identity-Key: 0X", 1), "CLAW-RCPT-CANON-030"},
		{"uppercase key hex", strings.Replace(s, "Identity-Key: 0xa1", "Identity-Key: 0xA1", 1), "CLAW-RCPT-CANON-030"},
		{"escaped name", strings.Replace(s, `Name: "alice"`, `Name: "\x61lice"`, 1), "CLAW-RCPT-CANON-030"},
		{"empty description", strings.Replace(s, `Description: "`+renderer.DefaultDescription+`"`, `Description: ""`, 1), "CLAW-RCPT-CANON-030"},
		{"raw quoted name", strings.Replace(s, `Name: "alice"`, "Name: `alice`", 1), "CLAW-RCPT-CANON-030"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := RuleID(err); got != tc.rule {
				t.Fatalf("RuleID: got %q want %q (%v)", got, tc.rule, err)
			}
		})
	}
}

func TestRequest_RoundTripsFreeText(t *testing.T) {
	req := testRequest(t)
	req.Name = "café <x>"
	req.Description = " leading space and \"quotes\"\nnewline"
	data, err := Issue(req, IssueOptions{})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	r, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := r.Request()
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if got.Name != req.Name || got.Description != req.Description {
		t.Fatalf("free text did not round-trip: %q / %q", got.Name, got.Description)
	}
	if err := r.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}
