package media

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"
)

func TestAtempoChainExamples(t *testing.T) {
	cases := []struct {
		factor float64
		want   []float64
	}{
		{3.0, []float64{2.0, 1.5}},
		{4.0, []float64{2.0, 2.0}},
		{1.5, []float64{1.5}},
		{2.0, []float64{2.0}},
		{0.5, []float64{0.5}},
		{0.25, []float64{0.5, 0.5}},
		{0.4, []float64{0.5, 0.8}},
	}
	for _, tc := range cases {
		got := atempoChain(tc.factor)
		if len(got) != len(tc.want) {
			t.Fatalf("chain(%v) = %v, want %v", tc.factor, got, tc.want)
		}
		for i := range got {
			if math.Abs(got[i]-tc.want[i]) > 1e-9 {
				t.Fatalf("chain(%v) = %v, want %v", tc.factor, got, tc.want)
			}
		}
	}
}

func TestAtempoChainProductAndRange(t *testing.T) {
	for factor := 2.01; factor <= 4.0; factor += 0.07 {
		stages := atempoChain(factor)
		product := 1.0
		for _, stage := range stages {
			if stage < 0.5 || stage > 2.0 {
				t.Fatalf("factor %v produced out-of-range stage %v in %v", factor, stage, stages)
			}
			product *= stage
		}
		if math.Abs(product-factor) > 1e-9 {
			t.Fatalf("factor %v: stage product %v differs (%v)", factor, product, stages)
		}
	}
}

func TestAdjustSpeedIdentity(t *testing.T) {
	executor := &fakeExecutor{}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	if got := toolkit.AdjustSpeed(context.Background(), audio, 1.0); got != audio {
		t.Fatal("factor 1.0 must return the input artifact unchanged")
	}
	if len(executor.calls) != 0 {
		t.Fatalf("expected no tool invocations, got %d", len(executor.calls))
	}
}

func TestAdjustSpeedChainsFilter(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(binary string, args []string) ([]byte, error) {
			writeNonEmptyForTest(args)
			return nil, nil
		},
	}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	got := toolkit.AdjustSpeed(context.Background(), audio, 3.0)
	if got == audio {
		t.Fatal("expected a new artifact")
	}
	if !got.Exists() {
		t.Fatal("adjusted artifact missing")
	}

	filter, ok := argValue(executor.calls[0].args, "-filter:a")
	if !ok {
		t.Fatalf("no filter argument in %v", executor.calls[0].args)
	}
	if filter != "atempo=2.00,atempo=1.50" {
		t.Fatalf("filter = %q", filter)
	}
}

func TestAdjustSpeedFailsSoft(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(string, []string) ([]byte, error) {
			return []byte("filter error"), errors.New("exit status 1")
		},
	}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	if got := toolkit.AdjustSpeed(context.Background(), audio, 1.5); got != audio {
		t.Fatal("tool failure must return the original artifact")
	}
}

func TestAddSilenceNoOps(t *testing.T) {
	executor := &fakeExecutor{}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	if got := toolkit.AddSilence(context.Background(), audio, 0); got != audio {
		t.Fatal("zero padding must be an identity")
	}
	if got := toolkit.AddSilence(context.Background(), audio, -1); got != audio {
		t.Fatal("negative padding must be an identity")
	}
	if len(executor.calls) != 0 {
		t.Fatalf("expected no tool invocations, got %d", len(executor.calls))
	}
}

func TestAddSilencePadsTail(t *testing.T) {
	executor := &fakeExecutor{
		handler: func(binary string, args []string) ([]byte, error) {
			writeNonEmptyForTest(args)
			return nil, nil
		},
	}
	toolkit := newTestToolkit(t, executor)
	audio := newSourceArtifact(t, KindAudio, "speech.mp3")

	got := toolkit.AddSilence(context.Background(), audio, 2.5)
	if got == audio {
		t.Fatal("expected a new artifact")
	}
	filter, ok := argValue(executor.calls[0].args, "-af")
	if !ok || !strings.Contains(filter, "apad=pad_dur=2.5") {
		t.Fatalf("unexpected pad filter %q", filter)
	}
}

// writeNonEmptyForTest creates the output file named by the final argument,
// mimicking a successful ffmpeg run.
func writeNonEmptyForTest(args []string) {
	if dest := lastArg(args); dest != "" {
		_ = os.WriteFile(dest, []byte("media"), 0o644)
	}
}
