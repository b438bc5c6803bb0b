package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.UploadDir, &c.Paths.WorkDir, &c.Paths.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}

	if strings.TrimSpace(c.FFmpeg.FFmpegBinary) == "" {
		c.FFmpeg.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.FFmpeg.AudioBitrate) == "" {
		c.FFmpeg.AudioBitrate = defaultAudioBitrate
	}
	if c.FFmpeg.SampleRate <= 0 {
		c.FFmpeg.SampleRate = defaultSampleRate
	}
	if c.FFmpeg.ProbeTimeout <= 0 {
		c.FFmpeg.ProbeTimeout = defaultProbeTimeout
	}
	if c.FFmpeg.ExtractTimeout <= 0 {
		c.FFmpeg.ExtractTimeout = defaultExtractTimeout
	}
	if c.FFmpeg.FilterTimeout <= 0 {
		c.FFmpeg.FilterTimeout = defaultFilterTimeout
	}
	if c.FFmpeg.MergeTimeout <= 0 {
		c.FFmpeg.MergeTimeout = defaultMergeTimeout
	}

	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	c.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeout
	}

	if c.MiniMax.APIKey == "" {
		c.MiniMax.APIKey = strings.TrimSpace(os.Getenv("MINIMAX_API_KEY"))
	}
	if c.MiniMax.GroupID == "" {
		c.MiniMax.GroupID = strings.TrimSpace(os.Getenv("MINIMAX_GROUP_ID"))
	}
	c.MiniMax.BaseURL = strings.TrimRight(strings.TrimSpace(c.MiniMax.BaseURL), "/")
	if c.MiniMax.BaseURL == "" {
		c.MiniMax.BaseURL = defaultMiniMaxBaseURL
	}
	if c.MiniMax.TimeoutSeconds <= 0 {
		c.MiniMax.TimeoutSeconds = defaultMiniMaxTimeout
	}

	if c.Replicate.APIKey == "" {
		c.Replicate.APIKey = strings.TrimSpace(os.Getenv("REPLICATE_API_KEY"))
	}
	c.Replicate.BaseURL = strings.TrimRight(strings.TrimSpace(c.Replicate.BaseURL), "/")
	if c.Replicate.BaseURL == "" {
		c.Replicate.BaseURL = defaultReplicateBaseURL
	}
	if c.Replicate.PollIntervalSeconds <= 0 {
		c.Replicate.PollIntervalSeconds = defaultReplicatePoll
	}
	if c.Replicate.TimeoutSeconds <= 0 {
		c.Replicate.TimeoutSeconds = defaultReplicateTimeout
	}

	if c.Uploads.MaxFileSizeMB <= 0 {
		c.Uploads.MaxFileSizeMB = defaultMaxFileSizeMB
	}
	if c.Uploads.MaxTextLength <= 0 {
		c.Uploads.MaxTextLength = defaultMaxTextLength
	}
	c.Uploads.AudioExtensions = normalizeExtensions(c.Uploads.AudioExtensions, Default().Uploads.AudioExtensions)
	c.Uploads.VideoExtensions = normalizeExtensions(c.Uploads.VideoExtensions, Default().Uploads.VideoExtensions)
	c.Uploads.ImageExtensions = normalizeExtensions(c.Uploads.ImageExtensions, Default().Uploads.ImageExtensions)

	if c.Dubbing.MaxSpeedFactor <= 0 {
		c.Dubbing.MaxSpeedFactor = defaultMaxSpeedFactor
	}
	if c.Worker.PollIntervalSeconds <= 0 {
		c.Worker.PollIntervalSeconds = defaultWorkerPollInterval
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}

func normalizeExtensions(values, fallback []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, ".")))
		if ext == "" {
			continue
		}
		cleaned = append(cleaned, ext)
	}
	if len(cleaned) == 0 {
		return append([]string(nil), fallback...)
	}
	return cleaned
}
