package store

import (
	"regexp"
	"strings"
)

// Ext is the file extension for prompt records on disk.
const Ext = ".md"

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a human-readable name into a filesystem-safe slug:
// lowercase, characters outside [word, space, hyphen] stripped, runs of
// whitespace and hyphens collapsed into a single hyphen, and leading or
// trailing hyphens trimmed. Slugify is idempotent.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
