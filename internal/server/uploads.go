package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"voxdub/internal/fileutil"
	"voxdub/internal/services"
	"voxdub/internal/textutil"
)

// multipartMemory bounds the in-memory portion of multipart parsing; the
// remainder spools to disk.
const multipartMemory = 32 << 20

// savedUpload is a multipart file landed in the upload directory.
type savedUpload struct {
	Path string
	Name string
}

func (u *savedUpload) cleanup() {
	if u != nil {
		fileutil.Remove(u.Path)
	}
}

// saveUpload streams the named multipart field into the upload directory.
// The file keeps its extension but gets a fresh uuid name so concurrent
// uploads never collide. Extension and size limits are enforced before the
// caller sees a path.
func (s *Server) saveUpload(r *http.Request, field, prefix string, allowed []string, maxBytes int64) (*savedUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "upload", "read form",
			fmt.Sprintf("no %s file provided", field), nil)
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		return nil, services.Wrap(services.ErrValidation, "upload", "read form", "no file selected", nil)
	}
	ext := fileutil.Extension(header.Filename)
	if !extensionAllowed(ext, allowed) {
		return nil, services.Wrap(services.ErrValidation, "upload", "validate file",
			fmt.Sprintf("unsupported file type .%s, allowed: %s", ext, strings.Join(allowed, ", ")), nil)
	}

	path := filepath.Join(s.cfg.Paths.UploadDir, fmt.Sprintf("%s_%s.%s", prefix, uuid.NewString(), ext))
	written, err := fileutil.WriteStream(path, io.LimitReader(file, maxBytes+1))
	if err != nil {
		fileutil.Remove(path)
		return nil, services.Wrap(services.ErrService, "upload", "save file", header.Filename, err)
	}
	if written == 0 {
		fileutil.Remove(path)
		return nil, services.Wrap(services.ErrValidation, "upload", "validate file", "uploaded file is empty", nil)
	}
	if written > maxBytes {
		fileutil.Remove(path)
		return nil, services.Wrap(services.ErrValidation, "upload", "validate file",
			fmt.Sprintf("file exceeds maximum size of %d MB", maxBytes/(1024*1024)), nil)
	}
	return &savedUpload{Path: path, Name: textutil.SanitizeFileName(header.Filename)}, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, candidate := range allowed {
		if strings.EqualFold(ext, candidate) {
			return true
		}
	}
	return false
}

// mediaExtensions merges the audio and video whitelists for endpoints that
// accept either.
func (s *Server) mediaExtensions() []string {
	merged := make([]string, 0, len(s.cfg.Uploads.AudioExtensions)+len(s.cfg.Uploads.VideoExtensions))
	merged = append(merged, s.cfg.Uploads.AudioExtensions...)
	merged = append(merged, s.cfg.Uploads.VideoExtensions...)
	return merged
}

func (s *Server) isVideoUpload(name string) bool {
	return extensionAllowed(fileutil.Extension(name), s.cfg.Uploads.VideoExtensions)
}
