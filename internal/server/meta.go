package server

import (
	"net/http"
	"os"
	"time"

	"voxdub/internal/deps"
	"voxdub/internal/jobs"
	"voxdub/internal/language"
)

type languageEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type languagesResponse struct {
	Languages []languageEntry `json:"languages"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}
	codes := language.Codes()
	payload := languagesResponse{Languages: make([]languageEntry, 0, len(codes))}
	for _, code := range codes {
		payload.Languages = append(payload.Languages, languageEntry{
			Code: code,
			Name: language.DisplayName(code),
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

type dependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

type statusResponse struct {
	Running        bool               `json:"running"`
	PID            int                `json:"pid"`
	UptimeSeconds  int64              `json:"uptime_seconds"`
	Jobs           map[string]int     `json:"jobs"`
	Dependencies   []dependencyStatus `json:"dependencies"`
	VoiceCloning   bool               `json:"voice_cloning"`
	LipSyncEnabled bool               `json:"lip_sync_enabled"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w)
		return
	}

	counts, err := s.store.CountByStatus(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jobCounts := make(map[string]int, len(counts))
	for status, count := range counts {
		jobCounts[string(status)] = count
	}
	for _, status := range jobs.AllStatuses() {
		if _, ok := jobCounts[string(status)]; !ok {
			jobCounts[string(status)] = 0
		}
	}

	checked := deps.Check(s.cfg)
	statuses := make([]dependencyStatus, 0, len(checked))
	for _, dep := range checked {
		statuses = append(statuses, dependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Available:   dep.Available,
			Detail:      dep.Detail,
		})
	}

	s.writeJSON(w, http.StatusOK, statusResponse{
		Running:        true,
		PID:            os.Getpid(),
		UptimeSeconds:  int64(time.Since(s.started) / time.Second),
		Jobs:           jobCounts,
		Dependencies:   statuses,
		VoiceCloning:   s.cloner != nil,
		LipSyncEnabled: s.lipsync != nil && s.cfg.Replicate.Enabled,
	})
}
