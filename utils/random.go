package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// GenerateOTP returns a numeric one-time code of the given length.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid OTP length %d", length)
	}

	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// GenerateResetToken returns a random hex token of 2*nBytes characters.
func GenerateResetToken(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// UsernameBase turns "Jane Mary" + "Doe" into "jane_mary_doe".
func UsernameBase(firstName, lastName string) string {
	name := strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)
	return strings.ToLower(whitespaceRe.ReplaceAllString(strings.TrimSpace(name), "_"))
}

// CandidateUsername appends a random four digit suffix to base.
func CandidateUsername(base string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d", base, 1000+n.Int64()), nil
}
