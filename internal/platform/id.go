package platform

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const errorIDLength = 8

func NewID() string {
	return uuid.New().String()
}

// NewErrorID returns a short correlation id for error responses and log lines.
// It carries no information beyond randomness, so it is safe to show callers.
func NewErrorID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(id[:errorIDLength])
}

// NewToken returns n random bytes hex-encoded. Used for session ids and CSRF tokens.
func NewToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	return hex.EncodeToString(b)
}
