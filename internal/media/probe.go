package media

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"voxdub/internal/services"
)

// ffmpeg prints "Duration: HH:MM:SS.ff" on its diagnostic stream.
var durationPattern = regexp.MustCompile(`Duration: (\d{2}):(\d{2}):(\d{2})\.(\d{2})`)

// Duration returns the artifact duration in seconds, probing on first use
// and caching the result. ffprobe's structured query is preferred; when it
// fails the duration is recovered from ffmpeg's diagnostic output.
func (t *Toolkit) Duration(ctx context.Context, artifact *Artifact) (float64, error) {
	if artifact == nil || strings.TrimSpace(artifact.Path) == "" {
		return 0, services.Wrap(services.ErrProbe, "probe", "inspect artifact", "no artifact path", nil)
	}
	if cached, ok := artifact.CachedDuration(); ok {
		return cached, nil
	}

	seconds, err := t.probe(ctx, artifact.Path)
	if err != nil {
		return 0, err
	}
	artifact.setDuration(seconds)
	return seconds, nil
}

func (t *Toolkit) probe(ctx context.Context, path string) (float64, error) {
	probeCtx := ctx
	if t.probeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, t.probeTimeout)
		defer cancel()
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	}
	output, err := t.exec.Run(probeCtx, t.ffprobe, args)
	if err == nil {
		if seconds, parseErr := strconv.ParseFloat(strings.TrimSpace(string(output)), 64); parseErr == nil {
			return seconds, nil
		}
	}

	// ffprobe unavailable or unparseable; recover the duration from
	// ffmpeg's own banner output.
	output, _ = t.runFFmpeg(ctx, t.probeTimeout, []string{"-i", path, "-f", "null", "-"})
	if seconds, ok := parseDiagnosticDuration(string(output)); ok {
		return seconds, nil
	}

	return 0, services.Wrap(services.ErrProbe, "probe", "inspect artifact", "duration undeterminable for "+path, err)
}

func parseDiagnosticDuration(output string) (float64, bool) {
	match := durationPattern.FindStringSubmatch(output)
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	centis, _ := strconv.Atoi(match[4])
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(centis)/100, true
}
