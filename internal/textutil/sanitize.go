package textutil

import "strings"

// unsafeReplacer maps filesystem-hostile characters: path and drive
// separators become dashes, the rest are stripped.
var unsafeReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a client-supplied filename safe to store and to
// echo back in a Content-Disposition header. The extension is preserved.
func SanitizeFileName(name string) string {
	return strings.TrimSpace(unsafeReplacer.Replace(strings.TrimSpace(name)))
}

// SanitizeToken reduces a string to a lowercase [a-z0-9_-] token for use in
// generated filenames. Returns "unknown" when nothing usable remains.
func SanitizeToken(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	token := strings.Trim(b.String(), "_-")
	if token == "" {
		return "unknown"
	}
	return token
}
