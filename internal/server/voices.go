package server

import (
	"net/http"
	"strings"
	"time"

	"voxdub/internal/jobs"
	"voxdub/internal/logging"
	"voxdub/internal/services/openai"
)

// voiceSampleMaxBytes caps voice-clone sample uploads. Samples are short
// recordings; the general upload cap is far too generous for them.
const voiceSampleMaxBytes = 10 * 1024 * 1024

type clonedVoiceResponse struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type voicesResponse struct {
	Standard []string              `json:"standard"`
	Cloned   []clonedVoiceResponse `json:"cloned"`
}

// handleVoices serves the voice catalog: the fixed standard set plus every
// cloned voice registered with this daemon.
func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	cloned, err := s.store.ListVoices(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload := voicesResponse{
		Standard: openai.Voices(),
		Cloned:   make([]clonedVoiceResponse, 0, len(cloned)),
	}
	for _, voice := range cloned {
		payload.Cloned = append(payload.Cloned, clonedVoiceResponse{
			VoiceID:     voice.VoiceID,
			Name:        voice.Name,
			Description: voice.Description,
			CreatedAt:   voice.CreatedAt.Format(time.RFC3339),
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// handleVoiceItem serves POST /api/voices/clone and DELETE /api/voices/{id}.
func (s *Server) handleVoiceItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/voices/")
	if rest == "clone" {
		s.handleVoiceClone(w, r)
		return
	}
	if rest == "" || strings.Contains(rest, "/") {
		s.writeError(w, http.StatusNotFound, "voice not found")
		return
	}
	if r.Method != http.MethodDelete {
		s.methodNotAllowed(w)
		return
	}

	removed, err := s.store.DeleteVoice(r.Context(), rest)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "voice not found")
		return
	}
	s.logger.Info("cloned voice removed", logging.String("voice_id", rest))
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": rest})
}

// handleVoiceClone registers a new cloned voice from an uploaded sample.
func (s *Server) handleVoiceClone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	if s.cloner == nil {
		s.writeError(w, http.StatusServiceUnavailable, "voice cloning not configured")
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	name := strings.TrimSpace(r.FormValue("voice_name"))
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "voice_name is required")
		return
	}
	description := strings.TrimSpace(r.FormValue("voice_description"))

	upload, err := s.saveUpload(r, "audio", "voice_clone", s.cfg.Uploads.AudioExtensions, voiceSampleMaxBytes)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer upload.cleanup()

	voiceID, err := s.cloner.CloneVoice(r.Context(), upload.Path, name, description)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if err := s.store.AddVoice(r.Context(), jobs.Voice{
		VoiceID:     voiceID,
		Name:        name,
		Description: description,
	}); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("voice cloned",
		logging.String("voice_id", voiceID),
		logging.String("name", name),
	)
	if err := s.notifier.NotifyVoiceCloned(r.Context(), name, voiceID); err != nil {
		s.logger.Warn("send clone notification", logging.Error(err))
	}
	s.writeJSON(w, http.StatusCreated, clonedVoiceResponse{
		VoiceID:     voiceID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
