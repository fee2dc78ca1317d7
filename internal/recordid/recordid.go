// Package recordid generates record IDs. Records created through the API get
// a random UUID; records captured from inbox files get an ID derived from the
// file path so re-ingesting the same file updates the same record.
package recordid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// InboxPrefix marks IDs derived from an inbox file path.
const InboxPrefix = "inbox:"

// New returns a fresh random record ID.
func New() string {
	return uuid.New().String()
}

// FromPath returns the stable record ID for an inbox file at absolutePath.
func FromPath(absolutePath string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(absolutePath)))
	return InboxPrefix + hex.EncodeToString(hash[:])
}

// IsInbox reports whether id was derived from an inbox file.
func IsInbox(id string) bool {
	return strings.HasPrefix(id, InboxPrefix)
}
