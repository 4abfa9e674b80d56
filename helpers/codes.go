package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
)

const referralBytes = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateReferralCode returns an 8-character code without the easily
// confused characters (0/O, 1/I/L).
func GenerateReferralCode() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = referralBytes[mrand.Intn(len(referralBytes))]
	}
	return string(b)
}

// GenerateOTPCode returns a 6-digit numeric code from crypto/rand.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
