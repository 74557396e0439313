// Package http hosts the browser UI.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/0xcro3dile/buddy-go/internal/adapters/view"
	"github.com/0xcro3dile/buddy-go/internal/domain/usecases"
)

// Server serves the page, accepts UI actions and pushes board updates.
type Server struct {
	board  *view.Board
	hub    *Hub
	addr   string
	logger *slog.Logger

	client *usecases.Client
	ops    map[string]func(*usecases.Client, context.Context) error

	mu      sync.RWMutex
	baseCtx context.Context
	running sync.WaitGroup
}

type stateMessage struct {
	Type string `json:"type"`
	view.State
}

// NewServer creates a server for one board. client must be bound to board;
// each operation runs on a copy bound to the values posted with it.
func NewServer(board *view.Board, client *usecases.Client, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		board:   board,
		client:  client,
		hub:     NewHub(logger),
		addr:    addr,
		logger:  logger,
		baseCtx: context.Background(),
	}
	s.ops = map[string]func(*usecases.Client, context.Context) error{
		"submit":   (*usecases.Client).SubmitMessage,
		"ask":      (*usecases.Client).AskQuestion,
		"actions":  (*usecases.Client).LoadActions,
		"context":  (*usecases.Client).LoadContext,
		"projects": (*usecases.Client).LoadProjects,
	}

	board.OnChange(func(u view.Update) {
		data, err := json.Marshal(u)
		if err != nil {
			logger.Error("encoding board update", "error", err)
			return
		}
		s.hub.Broadcast(data)
	})
	return s
}

// Handler returns the routes wrapped in the logging and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /ui/{op}", s.handleOp)
	mux.HandleFunc("GET /ui/state", s.handleState)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return corsMiddleware(loggingMiddleware(s.logger, mux))
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down and
// waits for running operations. Operations posted after ctx is done are refused.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	go s.hub.Run(ctx)

	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("buddy ui starting", "addr", ln.Addr().String())

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	err := server.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Handlers are finished once Shutdown returns, so no operation starts after this.
	<-shutdownDone
	s.running.Wait()
	return nil
}

// handleIndex renders the page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// handleOp starts the operation on the values posted with this request and
// answers before it finishes; the result arrives over /ws. Posted values are
// mirrored into the board so other pages see them.
func (s *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("op")
	op, ok := s.ops[name]
	if !ok {
		http.Error(w, "Unknown operation", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	ctx := s.baseCtx
	s.mu.RUnlock()
	if ctx.Err() != nil {
		http.Error(w, "Shutting down", http.StatusServiceUnavailable)
		return
	}

	b := s.board.Bindings()
	b.MessageInput = s.invocationField(r, s.board.Message)
	b.QuestionInput = s.invocationField(r, s.board.Question)
	b.ProjectInput = s.invocationField(r, s.board.Project)
	client := s.client.WithBindings(b)

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		start := time.Now()
		err := op(client, ctx)
		s.logger.Debug("ui operation finished", "op", name, "duration", time.Since(start), "error", err)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"op": name, "status": "accepted"})
}

// invocationField captures the posted value of shared, or its current value
// when nothing was posted.
func (s *Server) invocationField(r *http.Request, shared *view.Field) *postedField {
	v := shared.Value()
	if values, ok := r.PostForm[shared.Name()]; ok && len(values) > 0 {
		v = values[0]
		shared.SetValue(v)
	}
	return &postedField{value: v, shared: shared}
}

// postedField holds one operation's input. A write made by the operation
// (clearing after success) reaches the board only while the board still
// shows the value this operation read.
type postedField struct {
	mu     sync.Mutex
	value  string
	shared *view.Field
}

func (f *postedField) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *postedField) SetValue(v string) {
	f.mu.Lock()
	old := f.value
	f.value = v
	f.mu.Unlock()
	f.shared.CompareAndSwap(old, v)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.board.Snapshot())
}

// handleWebSocket attaches a page; its first message is the current state.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	greeting, err := json.Marshal(stateMessage{Type: "state", State: s.board.Snapshot()})
	if err != nil {
		http.Error(w, "Encoding state failed", http.StatusInternalServerError)
		return
	}
	s.hub.serve(w, r, greeting)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
