package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	enginex "github.com/tanpawarit/persona-agent/agent/engine"
)

//go:embed static
var staticFS embed.FS

const (
	maxRequestBytes = 1 << 20

	// statusClientClosedRequest is nginx's code for a client that went away
	// before the reply was ready.
	statusClientClosedRequest = 499
)

type Config struct {
	Addr              string        `default:":7860"`
	ReadHeaderTimeout time.Duration `split_words:"true" default:"10s"`
	ShutdownTimeout   time.Duration `split_words:"true" default:"10s"`
}

// Responder is the slice of the engine the widget needs.
type Responder interface {
	Respond(ctx context.Context, userMessage string, history []*schema.Message) (string, error)
}

type ChatRequest struct {
	Message string         `json:"message"`
	History []enginex.Turn `json:"history"`
}

type ChatResponse struct {
	Reply   string         `json:"reply,omitempty"`
	History []enginex.Turn `json:"history"`
	Error   string         `json:"error,omitempty"`
}

type Server struct {
	responder Responder
	name      string
	page      *template.Template
	cfg       Config
}

func NewServer(responder Responder, personaName string, cfg Config) (*Server, error) {
	if responder == nil {
		return nil, errors.New("responder is required")
	}
	page, err := template.ParseFS(staticFS, "static/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		responder: responder,
		name:      personaName,
		page:      page,
		cfg:       cfg,
	}, nil
}

// Handler wires routes and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	assets, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(assets))))

	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(mux)
	h = hlog.RequestIDHandler("request_id", "X-Request-Id")(h)
	return hlog.NewHandler(log.Logger)(h)
}

// ListenAndServe blocks until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("chat server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	log.Info().Msg("chat server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, map[string]string{"Name": s.name}); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render index")
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ChatResponse{Error: "invalid request body"})
		return
	}
	if req.History == nil {
		req.History = []enginex.Turn{}
	}

	// Blank input is a no-op, as in the widget.
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusOK, ChatResponse{History: req.History})
		return
	}

	reply, err := s.responder.Respond(r.Context(), req.Message, enginex.ToMessages(req.History))
	if err != nil {
		status, msg := describeError(err)
		hlog.FromRequest(r).Error().Err(err).Str("kind", contractx.KindOf(err).String()).Msg("turn failed")
		writeJSON(w, status, ChatResponse{History: req.History, Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Reply:   reply,
		History: enginex.AppendExchange(req.History, req.Message, reply),
	})
}

func describeError(err error) (int, string) {
	switch contractx.KindOf(err) {
	case contractx.KindTransportFailure, contractx.KindToolLoopExceeded:
		return http.StatusBadGateway, "The assistant is unavailable right now. Please try again in a moment."
	case contractx.KindToolInvocationFailure:
		return http.StatusInternalServerError, "Something went wrong while handling your message. Please try again."
	default:
		if errors.Is(err, context.Canceled) {
			return statusClientClosedRequest, "request canceled"
		}
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
