package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	UploadDir string `toml:"upload_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
}

// FFmpeg contains transcode-tool binaries and invocation limits.
type FFmpeg struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	AudioBitrate   string `toml:"audio_bitrate"`
	SampleRate     int    `toml:"sample_rate"`
	ProbeTimeout   int    `toml:"probe_timeout"`
	ExtractTimeout int    `toml:"extract_timeout"`
	FilterTimeout  int    `toml:"filter_timeout"`
	MergeTimeout   int    `toml:"merge_timeout"`
}

// OpenAI contains configuration for the transcription, translation, and
// standard-voice synthesis provider.
type OpenAI struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	WhisperModel   string `toml:"whisper_model"`
	ChatModel      string `toml:"chat_model"`
	TTSModel       string `toml:"tts_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MiniMax contains configuration for the cloned-voice synthesis provider.
type MiniMax struct {
	APIKey         string `toml:"api_key"`
	GroupID        string `toml:"group_id"`
	BaseURL        string `toml:"base_url"`
	TTSModel       string `toml:"tts_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Replicate contains configuration for the lip-sync provider.
type Replicate struct {
	Enabled             bool   `toml:"enabled"`
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	Model               string `toml:"model"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
}

// Uploads contains file upload validation limits.
type Uploads struct {
	MaxFileSizeMB   int      `toml:"max_file_size_mb"`
	MaxTextLength   int      `toml:"max_text_length"`
	AudioExtensions []string `toml:"audio_extensions"`
	VideoExtensions []string `toml:"video_extensions"`
	ImageExtensions []string `toml:"image_extensions"`
}

// Dubbing contains pipeline parameter limits.
type Dubbing struct {
	MaxSpeedFactor float64 `toml:"max_speed_factor"`
}

// Worker contains job processing loop settings.
type Worker struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
}

// Notifications contains push notification settings. Notifications are
// disabled when NtfyTopic is empty.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for voxdub.
//
// Configuration sections by subsystem:
//   - Paths: upload/work/log directories and API bind address
//   - FFmpeg: transcode-tool binaries, codec parameters, timeouts
//   - OpenAI: transcription, translation, standard-voice synthesis
//   - MiniMax: cloned-voice synthesis and voice management
//   - Replicate: lip-sync video generation
//   - Uploads: file size and extension limits
//   - Dubbing: pipeline parameter limits
//   - Worker: job polling interval
//   - Notifications: ntfy push notifications
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	FFmpeg        FFmpeg        `toml:"ffmpeg"`
	OpenAI        OpenAI        `toml:"openai"`
	MiniMax       MiniMax       `toml:"minimax"`
	Replicate     Replicate     `toml:"replicate"`
	Uploads       Uploads       `toml:"uploads"`
	Dubbing       Dubbing       `toml:"dubbing"`
	Worker        Worker        `toml:"worker"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/voxdub/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("voxdub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.UploadDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// MaxFileSizeBytes returns the upload size cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Uploads.MaxFileSizeMB) * 1024 * 1024
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
