package jobs

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a dubbing job. Processing statuses
// mirror the pipeline stages one to one.
type Status string

const (
	StatusPending      Status = "pending"
	StatusExtracting   Status = "extracting"
	StatusTranscribing Status = "transcribing"
	StatusTranslating  Status = "translating"
	StatusSynthesizing Status = "synthesizing"
	StatusAligning     Status = "aligning"
	StatusMerging      Status = "merging"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// DaemonStopReason is recorded when in-flight jobs are failed at shutdown or
// startup recovery.
const DaemonStopReason = "daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusTranscribing,
	StatusTranslating,
	StatusSynthesizing,
	StatusAligning,
	StatusMerging,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusExtracting:   {},
	StatusTranscribing: {},
	StatusTranslating:  {},
	StatusSynthesizing: {},
	StatusAligning:     {},
	StatusMerging:      {},
}

// VoiceKind distinguishes the two synthesis backends a job can use.
type VoiceKind string

const (
	VoiceStandard VoiceKind = "standard"
	VoiceCloned   VoiceKind = "cloned"
)

// Job is a dubbing request persisted in SQLite.
type Job struct {
	ID                 int64
	RequestID          string
	SourcePath         string
	SourceName         string
	TargetLanguage     string
	SourceLanguageHint string
	VoiceKind          VoiceKind
	Voice              string
	SpeedFactor        float64
	Status             Status
	Stage              string
	ErrorMessage       string
	OriginalText       string
	TranslatedText     string
	DetectedLanguage   string
	OriginalDuration   float64
	FinalDuration      float64
	OutputPath         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Voice is a cloned voice registered through the API.
type Voice struct {
	VoiceID     string
	Name        string
	Description string
	CreatedAt   time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing reports whether the job is mid-pipeline.
func (j Job) IsProcessing() bool {
	_, ok := processingStatuses[j.Status]
	return ok
}

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SetStage records the pipeline stage the job is entering.
func (j *Job) SetStage(status Status, stage string) {
	j.Status = status
	j.Stage = stage
	j.ErrorMessage = ""
}

// SetFailed marks the job failed at the given stage.
func (j *Job) SetFailed(stage, message string) {
	j.Status = StatusFailed
	if stage != "" {
		j.Stage = stage
	}
	j.ErrorMessage = message
}

// SetCompleted records the pipeline result.
func (j *Job) SetCompleted(outputPath string) {
	j.Status = StatusCompleted
	j.Stage = "done"
	j.ErrorMessage = ""
	j.OutputPath = outputPath
}
