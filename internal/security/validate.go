package security

import (
	"html"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"
)

// SanitizeInput entity-encodes < > & " ' so the value renders verbatim in HTML.
func (p *Policy) SanitizeInput(s string) string {
	return html.EscapeString(s)
}

// AccountKey is the form of a typed username that the attempt and lockout
// tables, and stored usernames, are keyed by. Raw input from a form or URL
// must pass through it before reaching CheckLoginAttempt, Unblock or
// LockStatus. Usernames read back from the store are already in this form.
func (p *Policy) AccountKey(username string) string {
	return p.SanitizeInput(username)
}

func (p *Policy) ValidateEmail(s string) bool {
	return util.ValidateEmail(s) == nil
}

// ValidateCNPJ ignores punctuation and checks both mod-11 check digits.
func (p *Policy) ValidateCNPJ(s string) bool {
	return util.ValidateCNPJ(s) == nil
}
