// Package web serves the widget demo page, the engine's static assets,
// and the per-session scripting channel the bridge runs over.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/astriolab/skywidget/internal/config"
	"github.com/astriolab/skywidget/internal/engine"
	"github.com/astriolab/skywidget/internal/widget"
	"github.com/astriolab/skywidget/pkg/protocol"
)

// Server hosts widget pages over one mounted engine asset set.
type Server struct {
	cfg     *config.Config
	mounted *engine.Mounted
	logger  *zap.Logger
	mux     *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*Session
	widgets  map[string]*widget.Widget
}

// NewServer wires the routes for a mounted engine.
func NewServer(cfg *config.Config, mounted *engine.Mounted, logger *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		mounted:  mounted,
		mux:      http.NewServeMux(),
		sessions: make(map[string]*Session),
		widgets:  make(map[string]*widget.Widget),
		logger:   logger.With(zap.String("component", "web-server")),
	}

	prefix := mounted.URLPrefix
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc(fmt.Sprintf("GET %s/assets/skywidget.js", prefix), s.handleRuntime)
	s.mux.Handle(fmt.Sprintf("GET %s/build/", prefix), http.StripPrefix(
		prefix+"/build/", http.FileServer(http.Dir(mounted.Assets.BuildDir))))
	s.mux.Handle(fmt.Sprintf("GET %s/data/", prefix), http.StripPrefix(
		prefix+"/data/", http.FileServer(http.Dir(mounted.Assets.DataDir))))
	s.mux.HandleFunc(fmt.Sprintf("GET %s/session/{id}/events", prefix), s.handleEvents)
	s.mux.HandleFunc(fmt.Sprintf("POST %s/session/{id}/result", prefix), s.handleResult)

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info("Serving", zap.String("addr", s.cfg.ListenAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleIndex creates a widget and its session and renders the page.
// The init envelope queues on the session until the browser attaches.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session, wid := s.newWidget(r.Context())

	prefix := s.mounted.URLPrefix
	data := pageData{
		Title:      "Sky",
		CanvasID:   wid.CanvasID(),
		RuntimeURL: s.mounted.RuntimeURL,
		EventsURL:  fmt.Sprintf("%s/session/%s/events", prefix, session.ID()),
		ResultURL:  fmt.Sprintf("%s/session/%s/result", prefix, session.ID()),
		Latitude:   wid.State().Latitude,
		Longitude:  wid.State().Longitude,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, data); err != nil {
		s.logger.Error("Page render failed", zap.Error(err))
	}
}

// newWidget builds a session + widget pair and mounts the widget.
func (s *Server) newWidget(ctx context.Context) (*Session, *widget.Widget) {
	// The session is keyed by the widget id, which only exists after the
	// widget is constructed, and the widget needs a host at construction.
	// A late-bound host breaks the cycle; bind happens before Mount.
	host := &lateBoundHost{}
	wid := widget.New(host, s.mounted, widget.Options{
		PollInterval:    s.cfg.Poll.Interval(),
		PollMaxAttempts: s.cfg.Poll.MaxAttempts,
		Logger:          s.logger,
	})
	session := NewSession(wid.ID(), s.cfg.Engine.EvalTimeout(), s.logger)
	host.bind(session)

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.widgets[wid.ID()] = wid
	s.mu.Unlock()

	if err := wid.Mount(ctx); err != nil {
		s.logger.Error("Widget mount failed",
			zap.String("instance_id", wid.ID()),
			zap.Error(err),
		)
	}

	return session, wid
}

// handleRuntime serves the embedded client runtime.
func (s *Server) handleRuntime(w http.ResponseWriter, _ *http.Request) {
	js, err := RuntimeJS()
	if err != nil {
		http.Error(w, "runtime unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(js)
}

// handleEvents streams a session's envelopes as server-sent events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.dropWidget(session.ID())
			return
		case env := <-session.Events():
			data, err := json.Marshal(env)
			if err != nil {
				s.logger.Error("Envelope encode failed", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleResult accepts an evaluation result posted by the browser.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	var res protocol.EvalResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		http.Error(w, "bad result payload", http.StatusBadRequest)
		return
	}

	session.Resolve(res)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

// dropWidget tears down a widget and its session after the browser
// disconnects.
func (s *Server) dropWidget(id string) {
	s.mu.Lock()
	session := s.sessions[id]
	wid := s.widgets[id]
	delete(s.sessions, id)
	delete(s.widgets, id)
	s.mu.Unlock()

	if wid != nil {
		wid.Close()
	}
	if session != nil {
		session.Close()
	}
	s.logger.Debug("Widget dropped", zap.String("instance_id", id))
}

// lateBoundHost defers the ScriptHost binding until the session exists.
// The widget id names the session, and the widget needs a host at
// construction time; bind is called before any dispatch can happen.
type lateBoundHost struct {
	mu      sync.Mutex
	session *Session
}

func (h *lateBoundHost) bind(s *Session) {
	h.mu.Lock()
	h.session = s
	h.mu.Unlock()
}

func (h *lateBoundHost) Exec(ctx context.Context, script string) error {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session == nil {
		return &SessionClosedError{SessionID: "unbound"}
	}
	return session.Exec(ctx, script)
}

func (h *lateBoundHost) Eval(ctx context.Context, expr string) (json.RawMessage, error) {
	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session == nil {
		return nil, &SessionClosedError{SessionID: "unbound"}
	}
	return session.Eval(ctx, expr)
}
