package security

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

// GenerateNumericCode returns a random numeric code of the given length,
// suitable for out-of-band verification. Leading zeros are kept.
func GenerateNumericCode(length int) (string, error) {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}

	return sb.String(), nil
}

// CodeExpiry returns the expiry timestamp for a code issued now.
func CodeExpiry(ttl time.Duration) time.Time {
	return time.Now().Add(ttl)
}

// CodeExpired reports whether the given expiry timestamp has passed.
func CodeExpired(expiresAt time.Time) bool {
	return time.Now().After(expiresAt)
}
