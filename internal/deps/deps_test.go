package deps

import (
	"os"
	"path/filepath"
	"testing"

	"voxdub/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestRequirementsUseConfiguredBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.FFmpeg.FFmpegBinary = "/opt/tools/ffmpeg"
	cfg.FFmpeg.FFprobeBinary = "/opt/tools/ffprobe"

	reqs := Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/tools/ffmpeg" {
		t.Fatalf("ffmpeg command = %q", reqs[0].Command)
	}
	if reqs[1].Command != "/opt/tools/ffprobe" {
		t.Fatalf("ffprobe command = %q", reqs[1].Command)
	}
	for _, req := range reqs {
		if req.Optional {
			t.Fatalf("%s must be mandatory", req.Name)
		}
	}
}

func TestRequirementsDefaultWithoutConfig(t *testing.T) {
	reqs := Requirements(nil)
	if reqs[0].Command != "ffmpeg" || reqs[1].Command != "ffprobe" {
		t.Fatalf("unexpected default commands: %q %q", reqs[0].Command, reqs[1].Command)
	}
}

func TestCheckReportsConfiguredToolchain(t *testing.T) {
	binDir := t.TempDir()
	script := []byte("#!/bin/sh\nexit 0\n")
	ffmpegPath := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(ffmpegPath, script, 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	cfg := config.Default()
	cfg.FFmpeg.FFmpegBinary = ffmpegPath
	cfg.FFmpeg.FFprobeBinary = filepath.Join(binDir, "ffprobe")

	results := Check(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected ffmpeg stub to be available: %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing ffprobe to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail for missing ffprobe")
	}
}
