package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"voxdub/internal/services"
)

func TestExtractAudioArguments(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(binary string, args []string) ([]byte, error) {
			writeNonEmptyForTest(args)
			return nil, nil
		},
	}
	toolkit := newTestToolkit(t, executor)
	video := newSourceArtifact(t, KindVideo, "clip.mp4")

	audio, err := toolkit.ExtractAudio(context.Background(), video)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if audio.Kind != KindAudio {
		t.Fatalf("kind = %q", audio.Kind)
	}
	if !strings.HasSuffix(audio.Path, ".mp3") {
		t.Fatalf("expected mp3 output, got %s", audio.Path)
	}

	args := executor.calls[0].args
	if !hasArgPair(args, "-i", video.Path) {
		t.Fatalf("missing input in %v", args)
	}
	if !hasArgPair(args, "-acodec", "libmp3lame") {
		t.Fatalf("missing codec in %v", args)
	}
	if !hasArgPair(args, "-b:a", "192k") {
		t.Fatalf("missing bitrate in %v", args)
	}
	if !hasArgPair(args, "-ar", "44100") {
		t.Fatalf("missing sample rate in %v", args)
	}
}

func TestExtractAudioFailsHard(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(string, []string) ([]byte, error) {
			return []byte("no audio stream"), errors.New("exit status 1")
		},
	}
	toolkit := newTestToolkit(t, executor)
	video := newSourceArtifact(t, KindVideo, "clip.mp4")

	_, err := toolkit.ExtractAudio(context.Background(), video)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestExtractAudioRejectsEmptyOutput(t *testing.T) {
	toolkit := newTestToolkit(t, &fakeExecutor{})
	video := newSourceArtifact(t, KindVideo, "clip.mp4")

	_, err := toolkit.ExtractAudio(context.Background(), video)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker for missing output, got %v", err)
	}
}

func TestExtractAudioValidatesInput(t *testing.T) {
	toolkit := newTestToolkit(t, &fakeExecutor{})
	_, err := toolkit.ExtractAudio(context.Background(), nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}
