package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Enabled bool   // Serve metrics in serve mode
	Addr    string // Listen address of the metrics endpoint
}

var DefaultConfig = Config{
	Enabled: false,
	Addr:    "127.0.0.1:6060",
}

var ErrServerRunning = errors.New("metrics server already running")

// Server exports the collectors at /metrics.
type Server struct {
	addr string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

func NewServer(addr string) *Server {
	return &Server{addr: addr}
}

func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return ErrServerRunning
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	router := httprouter.New()
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	s.server = &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	s.listener = listener
	go func(server *http.Server) {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", "error", err)
		}
	}(s.server)
	log.Info("Started metrics server", "addr", listener.Addr())
	return nil
}

// Addr returns the address the server listens on, nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server, s.listener = nil, nil
	log.Info("Stopped metrics server")
	return err
}
