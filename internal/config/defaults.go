package config

const (
	defaultUploadDir          = "~/.local/share/voxdub/uploads"
	defaultWorkDir            = "~/.local/share/voxdub/work"
	defaultLogDir             = "~/.local/share/voxdub/logs"
	defaultAPIBind            = "127.0.0.1:7603"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultAudioBitrate       = "192k"
	defaultSampleRate         = 44100
	defaultProbeTimeout       = 60
	defaultExtractTimeout     = 60
	defaultFilterTimeout      = 60
	defaultMergeTimeout       = 120
	defaultOpenAIBaseURL      = "https://api.openai.com/v1"
	defaultWhisperModel       = "whisper-1"
	defaultChatModel          = "gpt-3.5-turbo"
	defaultTTSModel           = "tts-1"
	defaultOpenAITimeout      = 300
	defaultMiniMaxBaseURL     = "https://api.minimax.io/v1"
	defaultMiniMaxTTSModel    = "speech-02-hd"
	defaultMiniMaxTimeout     = 120
	defaultReplicateBaseURL   = "https://api.replicate.com/v1"
	defaultReplicateModel     = "devxpy/cog-wav2lip"
	defaultReplicatePoll      = 5
	defaultReplicateTimeout   = 300
	defaultMaxFileSizeMB      = 200
	defaultMaxTextLength      = 1000
	defaultMaxSpeedFactor     = 3.0
	defaultWorkerPollInterval = 2
	defaultNtfyTimeout        = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			UploadDir: defaultUploadDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			AudioBitrate:   defaultAudioBitrate,
			SampleRate:     defaultSampleRate,
			ProbeTimeout:   defaultProbeTimeout,
			ExtractTimeout: defaultExtractTimeout,
			FilterTimeout:  defaultFilterTimeout,
			MergeTimeout:   defaultMergeTimeout,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			WhisperModel:   defaultWhisperModel,
			ChatModel:      defaultChatModel,
			TTSModel:       defaultTTSModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		MiniMax: MiniMax{
			BaseURL:        defaultMiniMaxBaseURL,
			TTSModel:       defaultMiniMaxTTSModel,
			TimeoutSeconds: defaultMiniMaxTimeout,
		},
		Replicate: Replicate{
			BaseURL:             defaultReplicateBaseURL,
			Model:               defaultReplicateModel,
			PollIntervalSeconds: defaultReplicatePoll,
			TimeoutSeconds:      defaultReplicateTimeout,
		},
		Uploads: Uploads{
			MaxFileSizeMB:   defaultMaxFileSizeMB,
			MaxTextLength:   defaultMaxTextLength,
			AudioExtensions: []string{"mp3", "wav", "ogg", "m4a", "flac", "aac"},
			VideoExtensions: []string{"mp4", "avi", "mov", "mkv", "webm"},
			ImageExtensions: []string{"jpg", "jpeg", "png", "webp"},
		},
		Dubbing: Dubbing{
			MaxSpeedFactor: defaultMaxSpeedFactor,
		},
		Worker: Worker{
			PollIntervalSeconds: defaultWorkerPollInterval,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
