package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArtifactExists(t *testing.T) {
	missing := NewAudio(filepath.Join(t.TempDir(), "missing.mp3"))
	if missing.Exists() {
		t.Fatal("missing file must not exist")
	}

	empty := filepath.Join(t.TempDir(), "empty.mp3")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if NewAudio(empty).Exists() {
		t.Fatal("empty file must not count as existing")
	}

	if !newSourceArtifact(t, KindVideo, "clip.mp4").Exists() {
		t.Fatal("nonempty file must exist")
	}
}

func TestTempSetCleanup(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.mp3")
	second := filepath.Join(dir, "second.mp3")
	final := filepath.Join(dir, "final.mp4")
	for _, path := range []string{first, second, final} {
		writeNonEmpty(t, path)
	}

	set := &TempSet{}
	set.AddPath(first)
	set.Add(NewAudio(second))
	set.AddPath(final)
	set.AddPath("")
	if set.Len() != 3 {
		t.Fatalf("tracked %d paths, want 3", set.Len())
	}

	set.Exclude(final)
	set.Cleanup(nil)

	for _, path := range []string{first, second} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%s should have been removed", path)
		}
	}
	if _, err := os.Stat(final); err != nil {
		t.Fatalf("excluded output must survive cleanup: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("cleanup must drain the set, %d left", set.Len())
	}
}

func TestTempSetCleanupToleratesMissingFiles(t *testing.T) {
	set := &TempSet{}
	set.AddPath(filepath.Join(t.TempDir(), "never-created.mp3"))
	set.Cleanup(nil)
	if set.Len() != 0 {
		t.Fatal("cleanup must drain the set even on errors")
	}
}
