package domain

import (
	"strings"
	"time"
)

// CodeTTL is how long an issued code is valid for verification.
const CodeTTL = 5 * time.Minute

// ResendCooldown is the minimum interval between issuances for one number.
const ResendCooldown = 60 * time.Second

// VerificationRecord is the pending code for a phone number. At most one
// exists per number; a new issuance replaces the previous record outright.
type VerificationRecord struct {
	PhoneNumber string    `json:"phone_number"`
	Code        int       `json:"code"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Consumed    bool      `json:"consumed"`
}

// IsExpired reports whether the record is past its validity window.
func (r *VerificationRecord) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Matches compares a submitted code against the stored one.
func (r *VerificationRecord) Matches(code int) bool {
	return r.Code == code
}

// ResendAllowedAt returns the earliest instant another code may be issued.
func (r *VerificationRecord) ResendAllowedAt() time.Time {
	return r.CreatedAt.Add(ResendCooldown)
}

// NormalizePhone canonicalizes a phone number to E.164 form so that issue,
// resend, and verify all address the same record. Strips spaces, hyphens,
// and parentheses; numbers without a leading + get the default country
// calling code prepended.
func NormalizePhone(raw, defaultISD string) string {
	trimmed := strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(trimmed, "+")

	var sb strings.Builder
	for _, c := range trimmed {
		if c >= '0' && c <= '9' {
			sb.WriteRune(c)
		}
	}
	digits := sb.String()
	if digits == "" {
		return ""
	}

	if !hasPlus && defaultISD != "" {
		digits = strings.TrimPrefix(defaultISD, "+") + digits
	}
	return "+" + digits
}
