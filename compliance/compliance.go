// Package compliance selects how strictly boundary inputs are checked before
// rendering.
package compliance

import "fmt"

// ComplianceMode selects how aggressively callers reject out-of-contract input.
//
// Permissive renders whatever it is given; the core never fails on a name.
// Strict rejects names the registry would never have accepted.
type ComplianceMode int

const (
	Permissive ComplianceMode = iota
	Strict
)

func (m ComplianceMode) String() string {
	switch m {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("ComplianceMode(%d)", int(m))
	}
}

// ParseMode parses "permissive" or "strict". The empty string is Permissive.
func ParseMode(s string) (ComplianceMode, error) {
	switch s {
	case "", "permissive":
		return Permissive, nil
	case "strict":
		return Strict, nil
	default:
		return Permissive, fmt.Errorf("compliance: unknown mode %q", s)
	}
}

// UnmarshalText lets a mode be decoded from flags and environment variables.
func (m *ComplianceMode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
