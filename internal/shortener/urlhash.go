package shortener

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var longURLPattern = regexp.MustCompile(`^(http|https)://.*$`)

// ValidURL reports whether rawURL is non-blank and starts with an http or https scheme.
func ValidURL(rawURL string) bool {
	return strings.TrimSpace(rawURL) != "" && longURLPattern.MatchString(rawURL)
}

// HashURL computes a SHA256 hash of the exact long URL.
// Dedup is by exact match, so the URL is not normalized first.
func HashURL(longURL string) URLHash {
	h := sha256.Sum256([]byte(longURL))

	return URLHash(hex.EncodeToString(h[:]))
}
