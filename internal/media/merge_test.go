package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"voxdub/internal/services"
)

// mergeFake answers duration probes from a fixed table and writes output
// files for every ffmpeg render invocation.
type mergeFake struct {
	fakeExecutor
	durations map[string]string
	probeErr  error
}

func newMergeFake(durations map[string]string) *mergeFake {
	f := &mergeFake{durations: durations}
	f.handler = func(binary string, args []string) ([]byte, error) {
		if binary == "ffprobe" {
			if f.probeErr != nil {
				return nil, f.probeErr
			}
			if d, ok := f.durations[lastArg(args)]; ok {
				return []byte(d + "\n"), nil
			}
			return nil, errors.New("unknown input")
		}
		if f.probeErr != nil && hasArgPair(args, "-f", "null") {
			return nil, f.probeErr
		}
		writeNonEmptyForTest(args)
		return nil, nil
	}
	return f
}

func TestMergeExtendsVideoWhenAudioLonger(t *testing.T) {
	video := newSourceArtifact(t, KindVideo, "clip.mp4")
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")
	executor := newMergeFake(map[string]string{video.Path: "8.0", audio.Path: "12.0"})
	toolkit := newTestToolkit(t, executor)

	temps := &TempSet{}
	merged, err := toolkit.Merge(context.Background(), video, audio, true, temps)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !merged.Exists() {
		t.Fatal("merged output missing")
	}

	render := executor.calls[len(executor.calls)-1]
	if !hasArgPair(render.args, "-c:v", "libx264") {
		t.Fatalf("expected video re-encode, got %v", render.args)
	}
	if !hasArgPair(render.args, "-t", "12") {
		t.Fatalf("expected -t 12, got %v", render.args)
	}
	if !hasArgPair(render.args, "-c:a", "aac") {
		t.Fatalf("expected aac audio, got %v", render.args)
	}
	if temps.Len() != 0 {
		t.Fatalf("no intermediates expected on the extend branch, got %d", temps.Len())
	}
}

func TestMergePadsAudioWhenAudioShorter(t *testing.T) {
	video := newSourceArtifact(t, KindVideo, "clip.mp4")
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")
	executor := newMergeFake(map[string]string{video.Path: "8.0", audio.Path: "5.0"})
	toolkit := newTestToolkit(t, executor)

	temps := &TempSet{}
	merged, err := toolkit.Merge(context.Background(), video, audio, true, temps)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !merged.Exists() {
		t.Fatal("merged output missing")
	}

	var padCall, renderCall *execCall
	for i := range executor.calls {
		call := &executor.calls[i]
		if call.binary == "ffprobe" {
			continue
		}
		if filter, ok := argValue(call.args, "-af"); ok && strings.Contains(filter, "apad") {
			padCall = call
			continue
		}
		if hasArgPair(call.args, "-map", "0:v:0") {
			renderCall = call
		}
	}
	if padCall == nil {
		t.Fatal("expected a silence padding invocation")
	}
	if filter, _ := argValue(padCall.args, "-af"); !strings.Contains(filter, "pad_dur=3") {
		t.Fatalf("expected 3s of padding, got %q", filter)
	}
	if renderCall == nil {
		t.Fatal("expected a merge invocation")
	}
	if !hasArgPair(renderCall.args, "-c:v", "copy") {
		t.Fatalf("expected stream copy, got %v", renderCall.args)
	}
	found := false
	for _, arg := range renderCall.args {
		if arg == "-shortest" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected -shortest guard, got %v", renderCall.args)
	}
	if temps.Len() != 1 {
		t.Fatalf("padded intermediate should be tracked, got %d entries", temps.Len())
	}
}

func TestMergeNaiveWhenDurationsUnknown(t *testing.T) {
	video := newSourceArtifact(t, KindVideo, "clip.mp4")
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")
	executor := newMergeFake(nil)
	executor.probeErr = errors.New("probe unavailable")
	toolkit := newTestToolkit(t, executor)

	merged, err := toolkit.Merge(context.Background(), video, audio, true, &TempSet{})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !merged.Exists() {
		t.Fatal("merged output missing")
	}

	render := executor.calls[len(executor.calls)-1]
	if !hasArgPair(render.args, "-c:v", "copy") {
		t.Fatalf("expected naive stream copy, got %v", render.args)
	}
	if hasArgPair(render.args, "-c:v", "libx264") {
		t.Fatalf("unexpected re-encode in naive merge: %v", render.args)
	}
}

func TestMergeWithoutReconcileSkipsProbing(t *testing.T) {
	video := newSourceArtifact(t, KindVideo, "clip.mp4")
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")
	executor := newMergeFake(map[string]string{video.Path: "8.0", audio.Path: "12.0"})
	toolkit := newTestToolkit(t, executor)

	if _, err := toolkit.Merge(context.Background(), video, audio, false, &TempSet{}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(executor.calls) != 1 {
		t.Fatalf("expected a single ffmpeg invocation, got %d", len(executor.calls))
	}
	found := false
	for _, arg := range executor.calls[0].args {
		if arg == "-shortest" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected -shortest in naive merge, got %v", executor.calls[0].args)
	}
}

func TestMergeToolFailure(t *testing.T) {
	video := newSourceArtifact(t, KindVideo, "clip.mp4")
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")
	executor := &fakeExecutor{
		handler: func(string, []string) ([]byte, error) {
			return []byte("muxer error"), errors.New("exit status 1")
		},
	}
	toolkit := newTestToolkit(t, executor)

	_, err := toolkit.Merge(context.Background(), video, audio, false, &TempSet{})
	if err == nil {
		t.Fatal("expected merge failure")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestMergeRequiresBothInputs(t *testing.T) {
	toolkit := newTestToolkit(t, &fakeExecutor{})
	_, err := toolkit.Merge(context.Background(), nil, nil, false, nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}
