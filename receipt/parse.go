package receipt

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"clawid.dev/claw/phase"
	"clawid.dev/claw/renderer"
)

// required lists the exact key set of each section. CRYPTO is checked
// separately because its keys depend on Signature-Alg.
var required = map[string][]string{
	SectionMeta:   {"Type", "Version"},
	SectionInput:  {"Activity-Count", "Creation-Counter", "Description", "Identity-Key", "Name", "Phase", "Token-Index"},
	SectionOutput: {"Entropy", "Markup-CID", "Metadata-CID", "Renderer"},
}

// Parse parses a receipt and enforces canonical serialization.
// Non-canonical inputs are rejected.
func Parse(data []byte) (*Receipt, error) {
	if !utf8.Valid(data) {
		return nil, newError(KindParse, "CLAW-RCPT-STR-001", "receipt must be valid UTF-8")
	}
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return nil, newError(KindParse, "CLAW-RCPT-STR-001", "BOM not allowed")
	}
	if bytes.Contains(data, []byte("\r")) {
		return nil, newError(KindCanonical, "CLAW-RCPT-CANON-001", "CR line endings not allowed")
	}
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return nil, newError(KindCanonical, "CLAW-RCPT-CANON-002", "trailing newline not allowed")
	}

	lines := strings.Split(string(data), "\n")
	if lines[0] != Preamble {
		return nil, newError(KindParse, "CLAW-RCPT-STR-010", "receipt preamble must be exact")
	}
	if lines[len(lines)-1] != Postamble {
		return nil, newError(KindParse, "CLAW-RCPT-STR-010", "missing receipt postamble")
	}

	sections := make(map[string]map[string]string, len(SectionOrder))
	signedEnd := -1
	offset := len(lines[0]) + 1
	i := 1
	for idx, name := range SectionOrder {
		if i >= len(lines)-1 || lines[i] != name {
			return nil, newError(KindParse, "CLAW-RCPT-STR-020", "sections missing or out of order")
		}
		if name == SectionCrypto {
			signedEnd = offset
		}
		offset += len(lines[i]) + 1
		i++

		pairs := make(map[string]string)
		var order []string
		for i < len(lines)-1 && lines[i] != "" {
			key, val, err := parsePair(lines[i])
			if err != nil {
				return nil, err
			}
			if _, dup := pairs[key]; dup {
				return nil, newError(KindParse, "CLAW-RCPT-STR-030", "duplicate key in section")
			}
			pairs[key] = val
			order = append(order, key)
			offset += len(lines[i]) + 1
			i++
		}
		if len(order) == 0 {
			return nil, newError(KindParse, "CLAW-RCPT-STR-020", "empty section "+name)
		}
		if !sort.StringsAreSorted(order) {
			return nil, newError(KindCanonical, "CLAW-RCPT-CANON-020", "keys not sorted lexicographically")
		}
		sections[name] = pairs

		last := idx == len(SectionOrder)-1
		switch {
		case last && i != len(lines)-1:
			return nil, newError(KindCanonical, "CLAW-RCPT-CANON-010", "unexpected content after CRYPTO section")
		case !last:
			if i >= len(lines)-1 || lines[i] != "" {
				return nil, newError(KindCanonical, "CLAW-RCPT-CANON-010", "missing blank line between sections")
			}
			offset++
			i++
			if i < len(lines) && lines[i] == "" {
				return nil, newError(KindCanonical, "CLAW-RCPT-CANON-010", "multiple blank lines between sections not allowed")
			}
		}
	}

	for _, sec := range []string{SectionMeta, SectionInput, SectionOutput} {
		keys := required[sec]
		for _, k := range keys {
			if _, ok := sections[sec][k]; !ok {
				return nil, newError(KindParse, "CLAW-RCPT-STR-040", "missing "+sec+" key "+k)
			}
		}
		if len(sections[sec]) != len(keys) {
			return nil, newError(KindParse, "CLAW-RCPT-STR-041", "unexpected "+sec+" key")
		}
	}
	meta := sections[SectionMeta]
	if meta["Type"] != Type || meta["Version"] != Version {
		return nil, newError(KindParse, "CLAW-RCPT-STR-050", "unsupported receipt type or version")
	}
	if err := checkCryptoKeys(sections[SectionCrypto]); err != nil {
		return nil, err
	}

	r := &Receipt{
		Sections: sections,
		Raw:      append([]byte(nil), data...),
	}
	r.Signed = r.Raw[:signedEnd]
	req, err := r.Request()
	if err != nil {
		return nil, err
	}
	if err := checkCanonicalInput(sections[SectionInput], req); err != nil {
		return nil, err
	}
	return r, nil
}

// checkCanonicalInput requires every INPUT value to be spelled exactly as
// Issue formats the decoded request.
func checkCanonicalInput(in map[string]string, req renderer.Request) error {
	desc := req.Description
	if desc == "" {
		desc = renderer.DefaultDescription
	}
	want := []struct {
		key, value string
	}{
		{"Activity-Count", strconv.FormatUint(req.ActivityCount, 10)},
		{"Creation-Counter", strconv.FormatUint(req.CreationCounter, 10)},
		{"Description", strconv.Quote(desc)},
		{"Identity-Key", req.Key.String()},
		{"Name", strconv.Quote(req.Name)},
		{"Phase", strconv.FormatUint(uint64(phase.Clamp(req.Phase)), 10)},
		{"Token-Index", strconv.FormatUint(req.TokenIndex, 10)},
	}
	for _, w := range want {
		if in[w.key] != w.value {
			return newError(KindCanonical, "CLAW-RCPT-CANON-030", "non-canonical INPUT value for "+w.key)
		}
	}
	return nil
}

func parsePair(line string) (string, string, error) {
	key, val, ok := strings.Cut(line, ": ")
	if !ok {
		return "", "", newError(KindParse, "CLAW-RCPT-STR-030", "invalid key-value formatting")
	}
	if key == "" {
		return "", "", newError(KindParse, "CLAW-RCPT-STR-030", "empty key")
	}
	if !isASCII(key) {
		return "", "", newError(KindParse, "CLAW-RCPT-STR-030", "non-ASCII key")
	}
	if err := checkValue(val); err != nil {
		return "", "", wrapError(KindParse, "CLAW-RCPT-STR-030", "invalid value for "+key, err)
	}
	return key, val, nil
}

func checkCryptoKeys(crypto map[string]string) error {
	alg, ok := crypto["Signature-Alg"]
	if !ok {
		return newError(KindCrypto, "CLAW-RCPT-CRYPTO-101", "missing Signature-Alg")
	}
	if alg == AlgNone {
		if len(crypto) != 1 {
			return newError(KindCrypto, "CLAW-RCPT-CRYPTO-102", "unsigned receipt must carry only Signature-Alg")
		}
		return nil
	}
	for _, k := range []string{"Hash-Alg", "Signature", "Signer-Key"} {
		if _, ok := crypto[k]; !ok {
			return newError(KindCrypto, "CLAW-RCPT-CRYPTO-103", "missing CRYPTO key "+k)
		}
	}
	if len(crypto) != 4 {
		return newError(KindCrypto, "CLAW-RCPT-CRYPTO-104", "unexpected CRYPTO key")
	}
	return nil
}
