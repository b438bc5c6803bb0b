package language

import "testing"

func TestDisplayNameKnownCodes(t *testing.T) {
	cases := map[string]string{
		"en": "English",
		"tr": "Turkish",
		"zh": "Chinese",
		"PT": "Portuguese",
		" ja ": "Japanese",
	}
	for code, want := range cases {
		if got := DisplayName(code); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestDisplayNameUnknownPassesThrough(t *testing.T) {
	if got := DisplayName("sw"); got != "sw" {
		t.Fatalf("unknown code should pass through, got %q", got)
	}
	if got := DisplayName("Klingon"); got != "Klingon" {
		t.Fatalf("unknown name should pass through, got %q", got)
	}
}

func TestSupported(t *testing.T) {
	if !Supported("ko") {
		t.Fatal("ko should be supported")
	}
	if Supported("xx") {
		t.Fatal("xx should not be supported")
	}
}

func TestCodesSortedAndComplete(t *testing.T) {
	codes := Codes()
	if len(codes) != 11 {
		t.Fatalf("expected 11 codes, got %d", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
}
