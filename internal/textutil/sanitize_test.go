package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"clip.mp4", "clip.mp4"},
		{"  spaced name.mp4 ", "spaced name.mp4"},
		{"a/b\\c:d*e.mp4", "a-b-c-d-e.mp4"},
		{`quo"te?<>|.mp4`, "quote.mp4"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alloy", "alloy"},
		{"Custom Voice!", "custom_voice"},
		{"voice-07_b", "voice-07_b"},
		{"", "unknown"},
		{"!!!", "unknown"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
