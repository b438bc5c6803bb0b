package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"voxdub/internal/fileutil"
	"voxdub/internal/logging"
	"voxdub/internal/media"
	"voxdub/internal/services/openai"
	"voxdub/internal/textutil"
)

type ttsRequest struct {
	Text        string `json:"text"`
	Voice       string `json:"voice"`
	VoiceType   string `json:"voice_type"`
	TranslateTo string `json:"translate_to"`
}

// handleTTS renders text to speech and streams the mp3 back. translate_to,
// when set, translates the text before synthesis.
func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}

	var req ttsRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	} else {
		req.Text = r.FormValue("text")
		req.Voice = r.FormValue("voice")
		req.VoiceType = r.FormValue("voice_type")
		req.TranslateTo = r.FormValue("translate_to")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if max := s.cfg.Uploads.MaxTextLength; max > 0 && len(text) > max {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("text exceeds maximum length of %d characters", max))
		return
	}

	cloned := false
	switch strings.TrimSpace(req.VoiceType) {
	case "", "standard":
	case "cloned":
		cloned = true
	default:
		s.writeError(w, http.StatusBadRequest, "voice_type must be standard or cloned")
		return
	}

	voice := strings.TrimSpace(req.Voice)
	if cloned {
		if voice == "" {
			s.writeError(w, http.StatusBadRequest, "voice is required for cloned voice_type")
			return
		}
		if s.cloner == nil {
			s.writeError(w, http.StatusServiceUnavailable, "cloned-voice synthesis not configured")
			return
		}
	} else {
		if voice == "" {
			voice = openai.DefaultVoice
		}
		if !openai.ValidVoice(voice) {
			s.writeError(w, http.StatusBadRequest,
				"unknown voice "+voice+", choose from: "+strings.Join(openai.Voices(), ", "))
			return
		}
	}

	if target := strings.TrimSpace(req.TranslateTo); target != "" {
		translated, err := s.speech.Translate(r.Context(), text, target)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		text = translated
	}

	var (
		audio []byte
		err   error
	)
	if cloned {
		audio, err = s.cloner.Synthesize(r.Context(), text, voice)
	} else {
		audio, err = s.speech.Synthesize(r.Context(), text, voice)
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeAudio(w, audio, "speech_"+textutil.SanitizeToken(voice)+".mp3")
}

type sttResponse struct {
	Text           string `json:"text"`
	Language       string `json:"language,omitempty"`
	TranslatedText string `json:"translated_text,omitempty"`
}

// handleSTT transcribes an uploaded audio or video file. Video uploads get
// their audio track extracted first. translate_to additionally translates
// the transcription.
func (s *Server) handleSTT(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	upload, err := s.saveUpload(r, "file", "stt", s.mediaExtensions(), s.cfg.MaxFileSizeBytes())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer upload.cleanup()

	audioPath := upload.Path
	if s.isVideoUpload(upload.Name) {
		extracted, extractErr := s.toolkit.ExtractAudio(r.Context(), media.NewVideo(upload.Path))
		if extractErr != nil {
			s.writeServiceError(w, extractErr)
			return
		}
		audioPath = extracted.Path
		defer fileutil.Remove(extracted.Path)
	}

	languageHint := strings.TrimSpace(r.FormValue("language"))
	transcription, err := s.speech.Transcribe(r.Context(), audioPath, languageHint)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	payload := sttResponse{Text: transcription.Text, Language: transcription.Language}
	if target := strings.TrimSpace(r.FormValue("translate_to")); target != "" {
		translated, translateErr := s.speech.Translate(r.Context(), transcription.Text, target)
		if translateErr != nil {
			// The transcription itself succeeded; report it without the
			// translation rather than failing the whole request.
			s.logger.Warn("post-transcription translation failed",
				logging.String("target_language", target),
				logging.Error(translateErr),
			)
		} else {
			payload.TranslatedText = translated
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}
