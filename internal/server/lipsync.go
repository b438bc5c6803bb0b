package server

import (
	"net/http"
)

// handleLipSync renders a talking video from an uploaded face (image or
// video) and an audio track. The endpoint is only live when the lip-sync
// provider is configured and enabled.
func (s *Server) handleLipSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w)
		return
	}
	if s.lipsync == nil || !s.cfg.Replicate.Enabled {
		s.writeError(w, http.StatusServiceUnavailable, "lip sync not configured")
		return
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request: "+err.Error())
		return
	}

	faceExtensions := append(append([]string{}, s.cfg.Uploads.ImageExtensions...), s.cfg.Uploads.VideoExtensions...)
	face, err := s.saveUpload(r, "face", "lipsync_face", faceExtensions, s.cfg.MaxFileSizeBytes())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer face.cleanup()

	audio, err := s.saveUpload(r, "audio", "lipsync_audio", s.cfg.Uploads.AudioExtensions, s.cfg.MaxFileSizeBytes())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer audio.cleanup()

	video, err := s.lipsync.LipSync(r.Context(), face.Path, audio.Path)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeVideo(w, video, "lipsync.mp4")
}
