package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"voxdub/internal/jobs"
	"voxdub/internal/logging"
	"voxdub/internal/services/openai"
)

// jobResponse is the public job representation. Jobs are addressed by their
// request id; the numeric row id stays internal.
type jobResponse struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	Stage            string  `json:"stage,omitempty"`
	Error            string  `json:"error,omitempty"`
	SourceName       string  `json:"source_name"`
	TargetLanguage   string  `json:"target_language"`
	SourceLanguage   string  `json:"source_language,omitempty"`
	VoiceKind        string  `json:"voice_kind"`
	Voice            string  `json:"voice"`
	SpeedFactor      float64 `json:"speed_factor"`
	OriginalText     string  `json:"original_text,omitempty"`
	TranslatedText   string  `json:"translated_text,omitempty"`
	DetectedLanguage string  `json:"detected_language,omitempty"`
	OriginalDuration float64 `json:"original_duration,omitempty"`
	FinalDuration    float64 `json:"final_duration,omitempty"`
	VideoReady       bool    `json:"video_ready"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type jobListResponse struct {
	Jobs []jobResponse `json:"jobs"`
}

func toJobResponse(job *jobs.Job) jobResponse {
	return jobResponse{
		ID:               job.RequestID,
		Status:           string(job.Status),
		Stage:            job.Stage,
		Error:            job.ErrorMessage,
		SourceName:       job.SourceName,
		TargetLanguage:   job.TargetLanguage,
		SourceLanguage:   job.SourceLanguageHint,
		VoiceKind:        string(job.VoiceKind),
		Voice:            job.Voice,
		SpeedFactor:      job.SpeedFactor,
		OriginalText:     job.OriginalText,
		TranslatedText:   job.TranslatedText,
		DetectedLanguage: job.DetectedLanguage,
		OriginalDuration: job.OriginalDuration,
		FinalDuration:    job.FinalDuration,
		VideoReady:       job.Status == jobs.StatusCompleted && job.OutputPath != "",
		CreatedAt:        job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        job.UpdatedAt.Format(time.RFC3339),
	}
}

// handleDub accepts a multipart dubbing request and enqueues it. The
// response is the pending job; callers poll /api/jobs/{id} for progress.
func (s *Server) handleDub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	targetLanguage := strings.TrimSpace(r.FormValue("target_language"))
	if targetLanguage == "" {
		s.writeError(w, http.StatusBadRequest, "target_language is required")
		return
	}
	sourceLanguage := strings.TrimSpace(r.FormValue("source_language"))

	voiceKind := jobs.VoiceStandard
	switch strings.TrimSpace(r.FormValue("voice_type")) {
	case "", "standard":
	case "cloned":
		voiceKind = jobs.VoiceCloned
	default:
		s.writeError(w, http.StatusBadRequest, "voice_type must be standard or cloned")
		return
	}

	voice := strings.TrimSpace(r.FormValue("voice"))
	if voiceKind == jobs.VoiceStandard {
		if voice == "" {
			voice = openai.DefaultVoice
		}
		if !openai.ValidVoice(voice) {
			s.writeError(w, http.StatusBadRequest,
				"unknown voice "+voice+", choose from: "+strings.Join(openai.Voices(), ", "))
			return
		}
	} else {
		if voice == "" {
			s.writeError(w, http.StatusBadRequest, "voice is required for cloned voice_type")
			return
		}
		known, err := s.store.GetVoice(r.Context(), voice)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if known == nil {
			s.writeError(w, http.StatusBadRequest, "cloned voice "+voice+" not found")
			return
		}
	}

	speedFactor := 1.0
	if raw := strings.TrimSpace(r.FormValue("speed_factor")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid speed_factor")
			return
		}
		speedFactor = parsed
	}
	maxSpeed := s.cfg.Dubbing.MaxSpeedFactor
	if speedFactor <= 0 || speedFactor > maxSpeed {
		s.writeError(w, http.StatusBadRequest,
			"speed_factor must be greater than 0 and at most "+strconv.FormatFloat(maxSpeed, 'g', -1, 64))
		return
	}

	upload, err := s.saveUpload(r, "video", "dubbing", s.cfg.Uploads.VideoExtensions, s.cfg.MaxFileSizeBytes())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	job, err := s.store.Create(r.Context(), &jobs.Job{
		RequestID:          uuid.NewString(),
		SourcePath:         upload.Path,
		SourceName:         upload.Name,
		TargetLanguage:     targetLanguage,
		SourceLanguageHint: sourceLanguage,
		VoiceKind:          voiceKind,
		Voice:              voice,
		SpeedFactor:        speedFactor,
	})
	if err != nil {
		upload.cleanup()
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("dubbing job accepted",
		logging.String("request_id", job.RequestID),
		logging.String("source", job.SourceName),
		logging.String("target_language", job.TargetLanguage),
	)
	s.writeJSON(w, http.StatusAccepted, toJobResponse(job))
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload := jobListResponse{Jobs: make([]jobResponse, 0, len(list))}
	for _, job := range list {
		payload.Jobs = append(payload.Jobs, toJobResponse(job))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// handleJobItem serves /api/jobs/{id} and /api/jobs/{id}/video.
func (s *Server) handleJobItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || (sub != "" && sub != "video") {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	job, err := s.store.GetByRequestID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	if sub == "video" {
		s.serveJobVideo(w, r, job)
		return
	}
	s.writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (s *Server) serveJobVideo(w http.ResponseWriter, r *http.Request, job *jobs.Job) {
	if job.Status != jobs.StatusCompleted || job.OutputPath == "" {
		s.writeError(w, http.StatusConflict, "dubbed video not ready")
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="dubbed_`+job.RequestID+`.mp4"`)
	http.ServeFile(w, r, job.OutputPath)
}
