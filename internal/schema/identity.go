package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NodeID derives a stable identity from the given natural-key components.
// Empty components are skipped; the remainder is joined with "|", hashed
// with SHA-256, and truncated to 16 hex characters. The same components
// always yield the same identity, which is what makes every upsert in the
// construction engine converge.
func NodeID(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(kept, "|")))
	return hex.EncodeToString(sum[:])[:16]
}
