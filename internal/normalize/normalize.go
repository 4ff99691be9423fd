// Package normalize holds the canonical forms used for identifiers.
package normalize

import "strings"

// ID returns the canonical string form of an opaque identifier. The backend
// API hands out numeric user and job ids, but the messaging core only ever
// compares strings, so every id goes through here before it is sorted,
// stored or looked up.
func ID(id string) string {
	return strings.TrimSpace(id)
}
