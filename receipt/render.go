package receipt

import (
	"sort"
	"strings"
)

type section struct {
	name  string
	pairs map[string]string
}

// writeSection appends one section with its keys sorted. Values must be
// single-line, non-empty and free of leading or trailing whitespace.
func writeSection(sb *strings.Builder, sec section) error {
	sb.WriteString(sec.name)
	sb.WriteString("\n")

	keys := make([]string, 0, len(sec.pairs))
	for k := range sec.pairs {
		if k == "" {
			return newError(KindRender, "CLAW-RCPT-RENDER-001", "empty key")
		}
		if !isASCII(k) {
			return newError(KindRender, "CLAW-RCPT-RENDER-002", "non-ASCII key")
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := sec.pairs[k]
		if err := checkValue(v); err != nil {
			return wrapError(KindRender, "CLAW-RCPT-RENDER-003", "invalid value for "+k, err)
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	return nil
}

// renderSigned produces the signed scope: the preamble and every section
// before CRYPTO, each followed by the blank separator line.
func renderSigned(secs []section) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")
	for _, sec := range secs {
		if err := writeSection(&sb, sec); err != nil {
			return nil, err
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// renderFull appends the CRYPTO section and postamble to a signed scope.
func renderFull(signed []byte, crypto map[string]string) ([]byte, error) {
	var sb strings.Builder
	sb.Write(signed)
	if err := writeSection(&sb, section{name: SectionCrypto, pairs: crypto}); err != nil {
		return nil, err
	}
	sb.WriteString(Postamble)
	return []byte(sb.String()), nil
}

func checkValue(v string) error {
	switch {
	case v == "":
		return errEmptyValue
	case strings.HasPrefix(v, " "):
		return errLeadingSpace
	case strings.ContainsAny(v, "\r\n"):
		return errNewline
	case strings.HasSuffix(v, " ") || strings.HasSuffix(v, "\t"):
		return errTrailingSpace
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
