package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/dixieflatline76/SmartRes/config"
	"github.com/dixieflatline76/SmartRes/pkg/resolution"
	"github.com/dixieflatline76/SmartRes/util"
	"github.com/dixieflatline76/SmartRes/util/log"
)

// Calculator is the subset of the resolution engine the server needs.
type Calculator interface {
	Calculate(resolution.Request) (*resolution.Result, error)
	InvalidateCache()
}

// client is one connected WebSocket consumer. Each gets its own limiter so a
// UI stuck in a redraw loop cannot starve the others.
type client struct {
	id      string
	conn    *websocket.Conn
	limiter *rate.Limiter

	writeMu sync.Mutex
}

// Server is the local REST/WebSocket host for the resolution engine. It owns
// cache invalidation: whenever a posted snapshot differs from the previous
// one it calls InvalidateCache before recalculating.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader
	addr       string

	calc            Calculator
	divisibleBy     int
	defaultDropdown string

	// WebSocket management
	clients     map[*client]bool
	clientsMu   sync.Mutex
	clientCount *util.SafeCounter

	shuttingDown *util.SafeFlag

	// Last snapshot seen, for host-side invalidation.
	lastReq   *resolution.Request
	lastReqMu sync.Mutex

	// Version/update info surfaced by /health, set by the daemon.
	version    string
	updateInfo *UpdateInfo
	infoMu     sync.RWMutex
}

// UpdateInfo is the update-availability snapshot shown in /health.
type UpdateInfo struct {
	UpdateAvailable bool   `json:"update_available"`
	LatestVersion   string `json:"latest_version"`
	ReleaseURL      string `json:"release_url,omitempty"`
}

// NewServer creates a new API server around the given calculator.
func NewServer(calc Calculator, addr string, divisibleBy int) *Server {
	s := &Server{
		mux: http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		addr:            addr,
		calc:            calc,
		divisibleBy:     divisibleBy,
		defaultDropdown: config.DefaultDropdownRatio,
		clients:         make(map[*client]bool),
		clientCount:     util.NewSafeInt(),
		shuttingDown:    util.NewSafeBool(),
	}
	s.setupRoutes()
	return s
}

// SetDefaultDropdown sets the preset ratio applied to requests that omit one.
func (s *Server) SetDefaultDropdown(label string) {
	s.defaultDropdown = label
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/calculate", s.enableCORS(s.handleCalculate))
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Allow UI frontends served from another origin to reach localhost
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// SetVersion sets the version string reported by /health.
func (s *Server) SetVersion(v string) {
	s.infoMu.Lock()
	defer s.infoMu.Unlock()
	s.version = v
}

// SetUpdateInfo stores the update-availability snapshot reported by /health.
// The daemon runs the actual GitHub check in the background so the handler
// never blocks on the network.
func (s *Server) SetUpdateInfo(info *UpdateInfo) {
	s.infoMu.Lock()
	defer s.infoMu.Unlock()
	s.updateInfo = info
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the server. This is blocking.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop stops the server. Broadcasts are suppressed from this point on so
// clients are not pushed partial updates while connections drain.
func (s *Server) Stop() error {
	s.shuttingDown.Set(true)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// registerClient adds a new WebSocket client with a fresh id and limiter.
func (s *Server) registerClient(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		// 20 recalculations per second with a small burst covers any sane
		// slider drag without letting one client flood the engine.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}

	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()
	s.clientCount.Increment()
	return c
}

func (s *Server) unregisterClient(c *client) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		s.clientCount.Decrement()
	}
	s.clientsMu.Unlock()
}

// broadcast sends a message to all connected clients, dropping any whose
// connection has gone away.
func (s *Server) broadcast(msg any) {
	if s.shuttingDown.Value() {
		return
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for c := range s.clients {
		c.writeMu.Lock()
		err := c.conn.WriteJSON(msg)
		c.writeMu.Unlock()
		if err != nil {
			log.Printf("Failed to broadcast to client %s: %v", c.id, err)
			c.conn.Close()
			delete(s.clients, c)
			s.clientCount.Decrement()
		}
	}
}
