package playback

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/mapgen"
)

// Builder produces levels with history. *mapgen.Generator satisfies it.
type Builder interface {
	Build(ctx context.Context, req mapgen.Request) (*mapgen.Level, error)
}

// Request is what a client sends to ask for a level
type Request struct {
	Depth  int    `json:"depth"`
	Preset string `json:"preset,omitempty"`
	WFC    string `json:"wfc,omitempty"` // "random", "always" or "never"
}

// Message is what the server streams back
type Message struct {
	Type    string `json:"type"` // "frame", "done" or "error"
	Frame   *Frame `json:"frame,omitempty"`
	Preset  string `json:"preset,omitempty"`
	WFC     bool   `json:"wfc,omitempty"`
	Frames  int    `json:"frames,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server streams level generation to WebSocket clients
type Server struct {
	cfg     config.PlaybackConfig
	builder Builder
	mu      sync.Mutex // Serializes Build, generators are not safe for concurrent use
}

// NewServer creates a playback server
func NewServer(cfg config.PlaybackConfig, builder Builder) *Server {
	return &Server{cfg: cfg, builder: builder}
}

// Handler returns the HTTP handler serving /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Playback server listening", "address", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	if s.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageSize)
	}
	s.serve(r.Context(), conn)
}

// serve answers requests until the client goes away
func (s *Server) serve(ctx context.Context, conn *websocket.Conn) {
	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("WebSocket read ended", "remote_addr", conn.RemoteAddr().String(), "error", err)
			}
			return
		}
		if err := s.stream(ctx, conn, req); err != nil {
			logger.Debug("WebSocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn, req Request) error {
	mode, err := mapgen.ParseWFCMode(req.WFC)
	if err != nil {
		return conn.WriteJSON(Message{Type: "error", Message: err.Error()})
	}

	s.mu.Lock()
	lvl, err := s.builder.Build(ctx, mapgen.Request{Depth: req.Depth, Preset: req.Preset, WFC: mode})
	s.mu.Unlock()
	if err != nil {
		return conn.WriteJSON(Message{Type: "error", Message: err.Error()})
	}

	frames := Frames(lvl.Grid)
	delay := time.Duration(s.cfg.FrameDelayMS) * time.Millisecond
	for i := range frames {
		if err := conn.WriteJSON(Message{Type: "frame", Frame: &frames[i]}); err != nil {
			return err
		}
		if delay > 0 && i < len(frames)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return conn.WriteJSON(Message{Type: "done", Preset: lvl.Preset, WFC: lvl.Resynthesized, Frames: len(frames)})
}
