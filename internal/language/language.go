// Package language maps dubbing language codes to display names.
//
// The supported set is fixed: it is the set of languages the translation
// prompt has been validated against. Codes outside the set are passed through
// verbatim so callers can still request an arbitrary target language.
package language

import (
	"sort"
	"strings"
)

type entry struct {
	code    string
	display string
}

var supported = []entry{
	{"en", "English"},
	{"tr", "Turkish"},
	{"de", "German"},
	{"fr", "French"},
	{"es", "Spanish"},
	{"it", "Italian"},
	{"pt", "Portuguese"},
	{"ru", "Russian"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"zh", "Chinese"},
}

var byCode = func() map[string]string {
	m := make(map[string]string, len(supported))
	for _, e := range supported {
		m[e.code] = e.display
	}
	return m
}()

// DisplayName returns the human-readable name for a supported code.
// Unrecognized codes are returned verbatim for prompt construction.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if name, ok := byCode[strings.ToLower(trimmed)]; ok {
		return name
	}
	return trimmed
}

// Supported reports whether code is in the validated language set.
func Supported(code string) bool {
	_, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Codes returns the supported language codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for _, e := range supported {
		codes = append(codes, e.code)
	}
	sort.Strings(codes)
	return codes
}
