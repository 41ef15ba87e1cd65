package renderer

import (
	"errors"

	"clawid.dev/claw/compliance"
	"clawid.dev/claw/entropy"
)

// Registry name bounds. The registry enforces these before a name reaches the
// renderer; Strict mode re-checks them at service boundaries.
const (
	MinNameLen = 3
	MaxNameLen = 32
)

// ParseKey parses a hex identity key into a structured error on failure.
func ParseKey(s string) (entropy.Key, error) {
	k, err := entropy.ParseKey(s)
	switch {
	case err == nil:
		return k, nil
	case errors.Is(err, entropy.ErrKeyLength):
		return k, wrapError(KindKey, "CLAW-KEY-001", "identity key must be 20 bytes (40 hex chars)", err)
	default:
		return k, wrapError(KindKey, "CLAW-KEY-002", "identity key is not valid hex", err)
	}
}

// CheckName validates a name under mode. Permissive accepts every name.
func CheckName(name string, mode compliance.ComplianceMode) error {
	if mode != compliance.Strict {
		return nil
	}
	if len(name) < MinNameLen || len(name) > MaxNameLen {
		return newError(KindName, "CLAW-NAME-001", "name must be 3-32 characters")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return newError(KindName, "CLAW-NAME-002", "name may only contain a-z, 0-9 and '-'")
	}
	return nil
}

// Validate applies CheckName to req.
func (req Request) Validate(mode compliance.ComplianceMode) error {
	return CheckName(req.Name, mode)
}
