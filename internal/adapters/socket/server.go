package socket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Handler serves completion requests for the server.
// Thread safety is the implementor's responsibility.
type Handler interface {
	Complete(ctx context.Context, params CompleteParams) CompleteResult
	Stats() StatsResult
}

// Server is the daemon that listens on a Unix socket and serves completion requests.
type Server struct {
	handler  Handler
	logger   *slog.Logger
	listener net.Listener
	sockPath string
	started  time.Time
	requests atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by handler.
func NewServer(handler Handler, sockPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		handler:    handler,
		logger:     logger,
		sockPath:   sockPath,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first. If the connection fails, the stale socket
// is removed before binding.
func (s *Server) Start() error {
	// Handle stale socket
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		// Stale socket, remove it
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, cancelling in-flight requests,
// closing the listener and removing the socket file.
// Idempotent: safe to call multiple times (e.g., after remote shutdown + signal).
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		s.cancel()
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

// Requests returns the number of complete requests served.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	// Unblock the scanner when the server stops.
	connDone := make(chan struct{})
	defer close(connDone)
	go func() {
		select {
		case <-s.done:
			conn.SetReadDeadline(time.Now())
		case <-connDone:
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB max message

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodComplete:
		return s.handleComplete(req)
	case MethodHealth:
		return s.handleHealth(req)
	case MethodStats:
		return Response{ID: req.ID, Result: s.handler.Stats()}
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleComplete(req Request) Response {
	// Re-marshal params to decode into CompleteParams
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: "invalid complete params"}
	}
	var params CompleteParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid complete params"}
	}

	s.requests.Add(1)
	start := time.Now()
	result := s.handler.Complete(s.ctx, params)
	result.Elapsed = time.Since(start).String()
	s.logger.Debug("complete",
		"prefix", params.Prefix,
		"file", params.File,
		"candidates", len(result.Candidates),
		"elapsed", result.Elapsed)

	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleHealth(req Request) Response {
	return Response{
		ID: req.ID,
		Result: HealthResult{
			Status:   "ok",
			Requests: s.requests.Load(),
			Uptime:   time.Since(s.started).Round(time.Second).String(),
		},
	}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
