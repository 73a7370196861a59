// Package jobs generates locally unique identifiers for bundles, batches and
// motion jobs.
package jobs

import (
	"strings"

	"github.com/google/uuid"
)

// Prefixes for the identifiers issued by this module.
const (
	BundlePrefix = "brand-"
	BatchPrefix  = "batch-"
)

// GenerateID creates a new random ID with the given prefix.
// The prefix should include a trailing dash, e.g. "brand-", "batch-".
func GenerateID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ShortID returns the first 8 characters of the random part of id, used in
// download filenames.
func ShortID(id string) string {
	if i := strings.LastIndex(id, "-"); i >= 0 {
		id = id[i+1:]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
