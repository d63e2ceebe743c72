// Package identity generates component and connection ids.
//
// Ids are unique per scan only. The random suffix is non-cryptographic and
// short, so the collision probability is small but non-zero; that is
// acceptable because nothing uses these ids for cross-scan identity — the
// diff engine keys on (name, type) / (from, to, type) instead.
package identity

import (
	"math/rand"
	"strings"
)

const (
	// maxNameLen bounds the normalized name segment of an id
	maxNameLen = 20

	componentSuffixLen  = 4
	connectionSuffixLen = 6

	base36 = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewComponentID builds an id of the form <normalized-name>-<type>-<suffix>
func NewComponentID(componentType, name string) string {
	return normalizeName(name) + "-" + componentType + "-" + randomSuffix(componentSuffixLen)
}

// NewConnectionID builds an id of the form conn-<type>-<suffix>.
// The suffix is longer than a component's because connections are far more
// numerous within a single scan.
func NewConnectionID(connectionType string) string {
	return "conn-" + connectionType + "-" + randomSuffix(connectionSuffixLen)
}

// normalizeName lowercases, strips non-alphanumerics, and truncates
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= maxNameLen {
			break
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
