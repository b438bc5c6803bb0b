package media

import (
	"log/slog"
	"os"
	"strings"

	"voxdub/internal/logging"
)

// Kind distinguishes audio from video artifacts.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Artifact references a media file on disk. Duration is probed lazily and
// cached; artifacts are never mutated in place, each pipeline stage produces
// a new one.
type Artifact struct {
	Path string
	Kind Kind

	duration *float64
}

// NewAudio returns an audio artifact for path.
func NewAudio(path string) *Artifact {
	return &Artifact{Path: path, Kind: KindAudio}
}

// NewVideo returns a video artifact for path.
func NewVideo(path string) *Artifact {
	return &Artifact{Path: path, Kind: KindVideo}
}

// CachedDuration returns the previously probed duration, if any.
func (a *Artifact) CachedDuration() (float64, bool) {
	if a == nil || a.duration == nil {
		return 0, false
	}
	return *a.duration, true
}

func (a *Artifact) setDuration(seconds float64) {
	a.duration = &seconds
}

// Exists reports whether the artifact file is present and nonempty.
func (a *Artifact) Exists() bool {
	if a == nil || strings.TrimSpace(a.Path) == "" {
		return false
	}
	info, err := os.Stat(a.Path)
	return err == nil && info.Size() > 0
}

// TempSet tracks intermediate artifacts created during one pipeline run.
// Every tracked path is deleted (best effort) by Cleanup; the final output
// must be excluded before cleanup runs.
type TempSet struct {
	paths []string
}

// Add tracks an artifact for cleanup.
func (s *TempSet) Add(artifact *Artifact) {
	if artifact == nil {
		return
	}
	s.AddPath(artifact.Path)
}

// AddPath tracks a raw path for cleanup.
func (s *TempSet) AddPath(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	s.paths = append(s.paths, path)
}

// Exclude removes path from the delete set, keeping the file on disk.
func (s *TempSet) Exclude(path string) {
	if path == "" {
		return
	}
	kept := s.paths[:0]
	for _, p := range s.paths {
		if p != path {
			kept = append(kept, p)
		}
	}
	s.paths = kept
}

// Len returns the number of tracked paths.
func (s *TempSet) Len() int {
	return len(s.paths)
}

// Cleanup deletes every tracked file, swallowing individual errors.
func (s *TempSet) Cleanup(logger *slog.Logger) {
	if logger == nil {
		logger = logging.NewNop()
	}
	for _, path := range s.paths {
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				logger.Debug("temp artifact cleanup failed", logging.String("path", path), logging.Error(err))
			}
			continue
		}
		logger.Debug("temp artifact removed", logging.String("path", path))
	}
	s.paths = nil
}
