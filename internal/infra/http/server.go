package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/quote-bot/internal/dialog"
	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

const maxBody = 64 << 10

// Sessions is the conversation surface the JSON API exposes.
type Sessions interface {
	Handle(ctx context.Context, sessionID, text string) (dialog.Reply, error)
	Reset(ctx context.Context, sessionID string) error
	State(ctx context.Context, sessionID string) (dialog.State, error)
}

type Server struct {
	srv *http.Server
}

type turnRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type turnResponse struct {
	SessionID string           `json:"session_id"`
	Reply     string           `json:"reply"`
	Route     dialog.Route     `json:"route"`
	Hints     dialog.Hints     `json:"hints"`
	Finalized *quotation.Draft `json:"finalized,omitempty"`
}

func New(addr string, exposeMetrics bool, sessions Sessions, log *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	if sessions != nil {
		h := &handlers{sessions: sessions, log: log}
		mux.HandleFunc("POST /v1/turn", h.turn)
		mux.HandleFunc("GET /v1/sessions/{id}", h.state)
		mux.HandleFunc("POST /v1/sessions/{id}/reset", h.reset)
	}

	return &Server{srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type handlers struct {
	sessions Sessions
	log      *slog.Logger
}

func (h *handlers) turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = dialog.NewSessionID()
	}

	reply, err := h.sessions.Handle(r.Context(), req.SessionID, req.Text)
	switch {
	case errors.Is(err, dialog.ErrDiscarded):
		writeError(w, http.StatusConflict, "session was reset while the message was processed")
		return
	case err != nil:
		h.log.Error("turn failed", "session", req.SessionID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, turnResponse{
		SessionID: req.SessionID,
		Reply:     reply.Text,
		Route:     reply.Route,
		Hints:     reply.Hints,
		Finalized: reply.Finalized,
	})
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.State(r.Context(), r.PathValue("id"))
	if err != nil {
		h.log.Error("load session failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Reset(r.Context(), r.PathValue("id")); err != nil {
		h.log.Error("reset session failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
