package media

import (
	"os"

	"voxdub/internal/services"
)

// SaveAudio writes synthesized audio bytes into a fresh temp artifact under
// the work directory.
func (t *Toolkit) SaveAudio(data []byte, prefix string) (*Artifact, error) {
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrService, "synthesizing", "save audio", "no audio data", nil)
	}
	dest := t.tempPath(prefix, "mp3")
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "save audio", dest, err)
	}
	return NewAudio(dest), nil
}
