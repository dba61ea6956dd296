package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/hexworld/internal/cache"
	"github.com/gravitas-games/hexworld/internal/config"
	"github.com/gravitas-games/hexworld/internal/layout"
)

// nullableCache keeps a nil *cache.ChunkCache from becoming a non-nil
// interface value.
func nullableCache(c *cache.ChunkCache) layout.ChunkCache {
	if c == nil {
		return nil
	}
	return c
}

// Server is the WebSocket gateway: it authenticates clients, hands each one
// an observer in the shared session, and streams chunk state back.
type Server struct {
	config    *config.Config
	session   *Session
	upgrader  websocket.Upgrader
	httpSrv   *http.Server
	validator *TokenValidator
	redis     *redis.Client

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server instance.
func New(cfg *config.Config) (*Server, error) {
	log.Println("Initializing server...")

	ctx, cancel := context.WithCancel(context.Background())

	// Redis is best-effort: without it the chunk cache and token blacklist
	// are skipped, generation stays in-memory.
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis unavailable, chunk cache disabled: %v", err)
			redisClient.Close()
			redisClient = nil
		} else {
			log.Println("Connected to Redis")
		}
	}

	srv := &Server{
		config:      cfg,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		redis:       redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Add proper origin checking in production
				return true
			},
		},
	}

	srv.validator = NewTokenValidator(cfg, redisClient)
	if srv.validator == nil {
		log.Println("Warning: no auth secret configured, gateway runs unauthenticated")
	}

	var chunkCache *cache.ChunkCache
	if redisClient != nil {
		chunkCache = cache.New(redisClient, cfg.Redis.ChunkPrefix, cfg.Redis.ChunkTTL())
	}

	session, err := NewSession("main", cfg, nullableCache(chunkCache))
	if err != nil {
		cancel()
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	srv.session = session

	log.Println("Server initialized successfully")
	return srv, nil
}

// Start begins listening for connections and runs the session tick loop.
func (s *Server) Start(addr string) error {
	log.Printf("Starting WebSocket server on %s", addr)

	go s.session.Run(s.ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("WebSocket endpoint: ws://%s/ws", addr)
	log.Printf("Health endpoint: http://%s/health", addr)

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}

	s.connMu.Lock()
	for conn := range s.connections {
		conn.Close()
	}
	s.connMu.Unlock()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// handleWebSocket handles WebSocket connection requests.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log.Printf("New WebSocket connection request from %s", r.RemoteAddr)

	var identity *Identity
	if s.validator != nil {
		tokenString := extractTokenFromHeader(r)
		if tokenString == "" {
			log.Printf("Missing JWT token from %s", r.RemoteAddr)
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}
		id, err := s.validator.ValidateToken(r.Context(), tokenString)
		if err != nil {
			log.Printf("Invalid JWT token from %s: %v", r.RemoteAddr, err)
			http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
			return
		}
		identity = id
		log.Printf("Authenticated user: %s (%s) from %s", id.Name, id.ID, r.RemoteAddr)
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := NewConnection(ws, s)
	conn.identity = identity

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	log.Printf("WebSocket connection established (%s)", r.RemoteAddr)

	// Handle connection (blocking)
	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	log.Printf("WebSocket connection closed (%s)", r.RemoteAddr)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","observers":%d,"engine":%q}`,
		s.session.ObserverCount(), s.session.EngineVersion())
}
