package security

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

var otpRange = big.NewInt(900000)

// NewOTP returns a random six digit code in [100000, 999999].
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// OTPMatches compares in constant time. An empty stored code never matches.
func OTPMatches(stored, given string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
