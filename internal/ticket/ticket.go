// Package ticket builds e-ticket numbers for confirmed reservations.
package ticket

import "strings"

// Generate interleaves a and b one character at a time, starting with a,
// and appends whatever remains of the longer string unchanged. The result
// always holds every character of both inputs, so its length is
// len(a)+len(b) counted in characters.
func Generate(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	n := min(len(ra), len(rb))

	var sb strings.Builder
	sb.Grow(len(a) + len(b))
	for i := 0; i < n; i++ {
		sb.WriteRune(ra[i])
		sb.WriteRune(rb[i])
	}
	// at most one of these has a tail
	sb.WriteString(string(ra[n:]))
	sb.WriteString(string(rb[n:]))
	return sb.String()
}
