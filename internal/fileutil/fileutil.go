// Package fileutil provides small file helpers shared by upload handling and
// artifact management.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// WriteStream saves the contents of r to path, creating parent directories.
func WriteStream(path string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, r)
	if err != nil {
		return written, err
	}
	return written, out.Close()
}

// Remove deletes path if it exists, reporting whether a file was removed.
func Remove(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	if err := os.Remove(path); err != nil {
		return false
	}
	return true
}

// SizeBytes returns the size of path, or 0 when it does not exist.
func SizeBytes(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// NonEmpty reports whether path exists and has nonzero size.
func NonEmpty(path string) bool {
	return SizeBytes(path) > 0
}

// Extension returns the lowercase extension of name without the leading dot.
func Extension(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext)
}
