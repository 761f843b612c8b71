package xid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a prefixed identifier, e.g. "inv-6f1f0c3a-...".
func New(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Short returns an 8-character random token for human-facing numbers.
func Short() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
