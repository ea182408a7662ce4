package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"payloadvault/internal/config"
	"payloadvault/internal/logging"
	"payloadvault/internal/payload"
	"payloadvault/internal/services"
)

// maxRunSnapshotBytes bounds hook request bodies; base64 image payloads can
// be large but not unbounded.
const maxRunSnapshotBytes = 64 << 20

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	capture *captureService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:    bind,
		logger:  logger,
		daemon:  d,
		capture: d.capture,
	}

	token := cfg.Paths.APIToken
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", authMiddleware(token, srv.handleRuns))
	mux.HandleFunc("/api/payload", authMiddleware(token, srv.handlePayload))
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/history", authMiddleware(token, srv.handleHistory))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// handleRuns is the pre-generation hook: the host posts its run snapshot
// here once per generation run.
func (s *apiServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRunSnapshotBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	var run payload.Run
	runID := uuid.NewString()
	ctx := services.WithRunID(r.Context(), runID)

	if err := json.Unmarshal(body, &run); err != nil {
		// Malformed snapshots still produce a displayable placeholder;
		// the host must never see a capture failure as a hard error.
		s.capture.fail(ctx, fmt.Errorf("decode run snapshot: %w", err))
		s.writeJSON(w, http.StatusOK, CaptureOutcome{RunID: runID, Failed: true})
		return
	}
	mode, err := payload.ParseMode(string(run.Mode))
	if err != nil {
		s.capture.fail(ctx, err)
		s.writeJSON(w, http.StatusOK, CaptureOutcome{RunID: runID, Failed: true})
		return
	}
	run.Mode = mode
	ctx = services.WithMode(ctx, string(mode))

	outcome := s.capture.Capture(ctx, &run, runID)
	s.writeJSON(w, http.StatusOK, outcome)
}

// handlePayload serves the last computed payload formatted for display.
func (s *apiServer) handlePayload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	formatted := s.capture.LastFormatted()
	if formatted == payload.NoPayloadMessage {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, formatted)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, formatted)
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.daemon.store == nil {
		s.writeError(w, http.StatusNotFound, "history disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	captures, err := s.daemon.store.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"captures": captures})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return logging.NewComponentLogger(s.logger, "api-server")
	}
	return logging.NewNop()
}
