package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"voxdub/internal/config"
)

type execCall struct {
	binary string
	args   []string
}

type fakeExecutor struct {
	handler func(binary string, args []string) ([]byte, error)
	calls   []execCall
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	f.calls = append(f.calls, execCall{binary: binary, args: append([]string(nil), args...)})
	if f.handler == nil {
		return nil, nil
	}
	return f.handler(binary, args)
}

func newTestToolkit(t *testing.T, executor Executor) *Toolkit {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	return NewToolkit(&cfg, nil, WithExecutor(executor))
}

// writeNonEmpty creates the file an ffmpeg invocation would have produced.
func writeNonEmpty(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func lastArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}

func hasArgPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func argValue(args []string, flag string) (string, bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func newSourceArtifact(t *testing.T, kind Kind, name string) *Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	writeNonEmpty(t, path)
	if kind == KindVideo {
		return NewVideo(path)
	}
	return NewAudio(path)
}
