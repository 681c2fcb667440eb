package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// CodeMin and CodeMax bound the 6-digit code space.
	CodeMin = 100000
	CodeMax = 999999
)

// GenerateCode returns a uniformly random 6-digit verification code.
func GenerateCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(CodeMax-CodeMin+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random code: %w", err)
	}
	return CodeMin + int(n.Int64()), nil
}

// ParseCode parses a submitted code string into its numeric form.
// Returns an error for anything that is not exactly 6 digits.
func ParseCode(s string) (int, error) {
	if len(s) != 6 {
		return 0, fmt.Errorf("code must be 6 digits")
	}
	code := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("code must be numeric")
		}
		code = code*10 + int(c-'0')
	}
	return code, nil
}

// IsNumeric checks if a string is all digits
func IsNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
