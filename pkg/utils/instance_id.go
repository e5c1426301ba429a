package utils

import (
	"os"
	"strings"

	"github.com/google/uuid"
)

// GenerateInstanceID creates a human-readable id for one daemon run.
// Format: {prefix}-{hostname}-{8charHexUUID}
//
// Example:
//   - Input: prefix="officesim", hostname "build-01.local"
//   - Output: "officesim-build-01-a3f8e2b1"
func GenerateInstanceID(prefix string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return prefix + "-" + shortHost(host) + "-" + generateShortUUID()
}

// shortHost keeps the first DNS label of a hostname
func shortHost(host string) string {
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

// generateShortUUID creates an 8-character hex string from a UUID.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
