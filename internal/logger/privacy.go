package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

func init() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// InitHashSalt re-reads the salt from the environment. Call after config
// loading so a late-set LOG_HASH_SALT still takes effect.
func InitHashSalt() {
	if salt := os.Getenv("LOG_HASH_SALT"); salt != "" {
		hashSalt = salt
	}
}

// HashParticipant creates a privacy-preserving hash of a participant name so
// log lines can be correlated without exposing who owes whom.
func HashParticipant(name string) string {
	data := fmt.Sprintf("%s:%s", name, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters are enough to correlate.
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeDescription redacts a free-text description but preserves length
// information for debugging.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}
	words := strings.Fields(desc)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(desc))
}
