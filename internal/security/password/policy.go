package password

import (
	"strings"
	"unicode"
)

// Policy de passwords del staff.
type Policy struct {
	MinLength    int
	RequireDigit bool
}

// Staff es la política que aplican el alta por API y por CLI.
var Staff = Policy{MinLength: 8}

// Validate retorna los motivos de rechazo; vacío = ok.
func (p Policy) Validate(s string) []string {
	var reasons []string
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	if strings.TrimSpace(s) == "" {
		reasons = append(reasons, "blank")
	}
	if p.RequireDigit && strings.IndexFunc(s, unicode.IsDigit) < 0 {
		reasons = append(reasons, "missing_digit")
	}
	return reasons
}
