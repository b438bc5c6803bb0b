package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestWriteStreamCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")
	n, err := WriteStream(path, strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("write stream: %v", err)
	}
	if n != 3 {
		t.Fatalf("wrote %d bytes, want 3", n)
	}
	if !NonEmpty(path) {
		t.Fatal("expected file to exist")
	}
}

func TestRemoveMissingFile(t *testing.T) {
	if Remove(filepath.Join(t.TempDir(), "absent")) {
		t.Fatal("remove of missing file should report false")
	}
	if Remove("") {
		t.Fatal("remove of empty path should report false")
	}
}

func TestExtension(t *testing.T) {
	if got := Extension("Video.MP4"); got != "mp4" {
		t.Fatalf("extension = %q", got)
	}
	if got := Extension("noext"); got != "" {
		t.Fatalf("extension = %q", got)
	}
}
