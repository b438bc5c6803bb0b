package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "merging", "run ffmpeg", "merge failed", base)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToService(t *testing.T) {
	err := Wrap(nil, "translating", "call provider", "", nil)
	if !errors.Is(err, ErrService) {
		t.Fatalf("expected service marker fallback, got %v", err)
	}
}

func TestWrapDetailOmitsEmptyParts(t *testing.T) {
	err := Wrap(ErrValidation, "", "", "", nil)
	want := fmt.Sprintf("%s: service failure", ErrValidation)
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(Wrap(ErrValidation, "dubbing", "parse request", "speed factor out of range", nil)) {
		t.Fatal("validation marker not detected")
	}
	if IsValidation(Wrap(ErrService, "transcribing", "call provider", "", nil)) {
		t.Fatal("service error misclassified as validation")
	}
}
