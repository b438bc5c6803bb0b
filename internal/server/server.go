package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"voxdub/internal/config"
	"voxdub/internal/jobs"
	"voxdub/internal/logging"
	"voxdub/internal/media"
	"voxdub/internal/notifications"
	"voxdub/internal/services"
	"voxdub/internal/services/openai"
)

// Speech covers transcription, translation, and standard-voice synthesis.
// The OpenAI client satisfies it; tests substitute fakes.
type Speech interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (openai.Transcription, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// VoiceCloner covers cloned-voice synthesis and voice registration. The
// MiniMax client satisfies it.
type VoiceCloner interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	CloneVoice(ctx context.Context, samplePath, name, description string) (string, error)
}

// LipSyncer renders a talking video from a face and an audio track. The
// Replicate client satisfies it.
type LipSyncer interface {
	LipSync(ctx context.Context, facePath, audioPath string) ([]byte, error)
}

// Options carries the collaborators handlers call out to.
type Options struct {
	Config   *config.Config
	Store    *jobs.Store
	Toolkit  *media.Toolkit
	Speech   Speech
	Cloner   VoiceCloner
	LipSync  LipSyncer
	Notifier notifications.Service
	Logger   *slog.Logger
}

// Server exposes the dubbing HTTP API.
type Server struct {
	cfg      *config.Config
	store    *jobs.Store
	toolkit  *media.Toolkit
	speech   Speech
	cloner   VoiceCloner
	lipsync  LipSyncer
	notifier notifications.Service
	logger   *slog.Logger

	mux      *http.ServeMux
	listener net.Listener
	server   *http.Server
	started  time.Time
}

// New constructs a server. The store, toolkit, and speech backend are
// mandatory; cloning and lip sync are optional capabilities whose endpoints
// report unavailability when unset.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "construct server", "config and store required", nil)
	}
	if opts.Toolkit == nil || opts.Speech == nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "construct server", "toolkit and speech backend required", nil)
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(opts.Config)
	}

	srv := &Server{
		cfg:      opts.Config,
		store:    opts.Store,
		toolkit:  opts.Toolkit,
		speech:   opts.Speech,
		cloner:   opts.Cloner,
		lipsync:  opts.LipSync,
		notifier: notifier,
		logger:   logging.NewComponentLogger(opts.Logger, "api-server"),
		mux:      http.NewServeMux(),
		started:  time.Now(),
	}

	srv.mux.HandleFunc("/api/dub", srv.handleDub)
	srv.mux.HandleFunc("/api/jobs", srv.handleJobs)
	srv.mux.HandleFunc("/api/jobs/", srv.handleJobItem)
	srv.mux.HandleFunc("/api/tts", srv.handleTTS)
	srv.mux.HandleFunc("/api/stt", srv.handleSTT)
	srv.mux.HandleFunc("/api/lipsync", srv.handleLipSync)
	srv.mux.HandleFunc("/api/voices", srv.handleVoices)
	srv.mux.HandleFunc("/api/voices/", srv.handleVoiceItem)
	srv.mux.HandleFunc("/api/languages", srv.handleLanguages)
	srv.mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           srv.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving on the configured bind address. Serving stops when
// ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	if bind == "" {
		return services.Wrap(services.ErrConfiguration, "api", "start server", "bind address required", nil)
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listen address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, draining in-flight requests briefly.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
