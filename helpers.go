package inkwell

import "strings"

// Slugify converts a title to a URL-safe slug. Characters outside a-z and
// 0-9 collapse into single hyphens, so a title in a non-Latin script yields
// an empty slug and callers must supply one.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
