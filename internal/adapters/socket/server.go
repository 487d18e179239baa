package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"
)

// Backend answers daemon requests. Thread safety is the implementor's
// responsibility; the server calls it from one goroutine per connection.
type Backend interface {
	Analyze(params AnalyzeParams) (AnalyzeResult, error)
	Lookup(params LookupParams) (LookupResult, error)
	Stats() LexiconStats
	Reload() (ReloadResult, error)
}

// Server is the daemon that listens on a Unix socket and serves analysis requests.
type Server struct {
	backend  Backend
	log      *slog.Logger
	listener net.Listener
	sockPath string
	started  time.Time

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by b. A nil logger uses slog.Default().
func NewServer(b Backend, sockPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		backend:    b,
		log:        logger.With("component", "socket"),
		sockPath:   sockPath,
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
		s.log.Info("removing stale socket", "path", s.sockPath)
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()
	s.log.Info("daemon listening", "path", s.sockPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and removing the socket file.
// Idempotent: safe to call multiple times (e.g., after remote shutdown + signal).
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
		s.log.Info("daemon stopped", "path", s.sockPath)
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

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)

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
	case MethodAnalyze:
		return s.handleAnalyze(req)
	case MethodLookup:
		return s.handleLookup(req)
	case MethodHealth:
		return s.handleHealth(req)
	case MethodReload:
		return s.handleReload(req)
	case MethodShutdown:
		s.log.Info("remote shutdown requested", "id", req.ID)
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func decodeParams(req Request, v interface{}) error {
	if len(req.Params) == 0 {
		return fmt.Errorf("missing %s params", req.Method)
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		return fmt.Errorf("invalid %s params", req.Method)
	}
	return nil
}

func (s *Server) handleAnalyze(req Request) Response {
	var params AnalyzeParams
	if err := decodeParams(req, &params); err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	result, err := s.backend.Analyze(params)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleLookup(req Request) Response {
	var params LookupParams
	if err := decodeParams(req, &params); err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	if params.Word == "" {
		return Response{ID: req.ID, Error: "lookup: empty word"}
	}
	result, err := s.backend.Lookup(params)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleHealth(req Request) Response {
	return Response{
		ID: req.ID,
		Result: HealthResult{
			Status:  "ok",
			Lexicon: s.backend.Stats(),
			Uptime:  time.Since(s.started).Round(time.Second).String(),
		},
	}
}

func (s *Server) handleReload(req Request) Response {
	result, err := s.backend.Reload()
	if err != nil {
		s.log.Warn("reload failed", "id", req.ID, "err", err)
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(Response{ID: resp.ID, Error: "encode response: " + err.Error()})
	}
	data = append(data, '\n')
	conn.Write(data)
}
