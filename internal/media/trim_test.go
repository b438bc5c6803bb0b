package media

import (
	"context"
	"errors"
	"testing"
)

func TestHalveAudioCutsFirstHalf(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(binary string, args []string) ([]byte, error) {
			if binary == "ffprobe" {
				return []byte("10.0\n"), nil
			}
			writeNonEmptyForTest(args)
			return nil, nil
		},
	}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	halved := toolkit.HalveAudio(context.Background(), audio)
	if halved == audio {
		t.Fatal("expected a new artifact")
	}

	cut := executor.calls[len(executor.calls)-1]
	if !hasArgPair(cut.args, "-t", "5") {
		t.Fatalf("expected -t 5, got %v", cut.args)
	}
	if !hasArgPair(cut.args, "-acodec", "copy") {
		t.Fatalf("expected stream copy, got %v", cut.args)
	}
}

func TestHalveAudioFailsSoftOnProbeError(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(string, []string) ([]byte, error) {
			return []byte("garbage"), errors.New("boom")
		},
	}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	if got := toolkit.HalveAudio(context.Background(), audio); got != audio {
		t.Fatal("probe failure must return the original artifact")
	}
}

func TestHalveAudioFailsSoftOnToolError(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(binary string, _ []string) ([]byte, error) {
			if binary == "ffprobe" {
				return []byte("10.0"), nil
			}
			return []byte("cut error"), errors.New("exit status 1")
		},
	}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	if got := toolkit.HalveAudio(context.Background(), audio); got != audio {
		t.Fatal("tool failure must return the original artifact")
	}
}
