package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"voxdub/internal/logging"
	"voxdub/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps classified service errors onto HTTP statuses:
// validation and configuration problems are the caller's fault, everything
// else is a provider or tool failure.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	if services.IsValidation(err) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeError(w, http.StatusBadGateway, err.Error())
}

func (s *Server) methodNotAllowed(w http.ResponseWriter) {
	s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeAudio sends synthesized speech as a downloadable mp3.
func (s *Server) writeAudio(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write audio response", logging.Error(err))
	}
}

// writeVideo sends rendered video as a downloadable mp4.
func (s *Server) writeVideo(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write video response", logging.Error(err))
	}
}
