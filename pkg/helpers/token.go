package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// GenToken returns n random bytes encoded URL-safe, used for email
// verification and password reset links.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
