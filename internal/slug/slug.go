// Package slug derives owner-unique, URL-safe identifiers from category
// display names.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// fallback is used when a display name normalizes to nothing.
const fallback = "category"

// Make returns the normalized base slug for a display name: lowercase,
// with whitespace and separator runs collapsed to single hyphens and all
// other punctuation stripped.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		}
	}

	s := b.String()
	if s == "" {
		return fallback
	}
	return s
}

// Resolve returns a slug for name that is not a member of existing,
// probing base-1, base-2, ... until an unused slug is found. It is pure
// and deterministic, and terminates within len(existing)+1 probes.
func Resolve(name string, existing map[string]struct{}) string {
	base := Make(name)
	if _, taken := existing[base]; !taken {
		return base
	}

	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
