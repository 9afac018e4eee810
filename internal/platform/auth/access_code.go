package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CodeVerifier checks a submitted access code against the configured
// credential. In production the code is verified against a bcrypt hash;
// in development a plain-text code may be configured instead.
type CodeVerifier struct {
	hash      string
	plainCode string
}

// NewCodeVerifier builds a verifier. hash takes precedence over plainCode
// when both are set.
func NewCodeVerifier(hash, plainCode string) *CodeVerifier {
	return &CodeVerifier{hash: hash, plainCode: plainCode}
}

// Verify returns nil when the submitted code matches the configured
// credential.
func (v *CodeVerifier) Verify(code string) error {
	if code == "" {
		return fmt.Errorf("access code is required")
	}
	if v.hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(v.hash), []byte(code)); err != nil {
			return fmt.Errorf("invalid access code")
		}
		return nil
	}
	if v.plainCode != "" {
		if code != v.plainCode {
			return fmt.Errorf("invalid access code")
		}
		return nil
	}
	return fmt.Errorf("no access code configured")
}

// HashAccessCode produces a bcrypt hash suitable for ACCESS_CODE_HASH.
func HashAccessCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash access code: %w", err)
	}
	return string(hash), nil
}
