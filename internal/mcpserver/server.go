package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/quizr/internal/bank"
	"github.com/mark3labs/quizr/internal/logger"
)

// Server exposes the question bank to MCP clients over streamable HTTP.
// Tool calls that write run the same validation and save orchestration as
// the interactive wizard.
type Server struct {
	store     *bank.Store
	version   string
	mcpServer *server.MCPServer

	mu   sync.Mutex
	http *http.Server
	port int
}

// New registers the tools. Nothing listens until Start.
func New(store *bank.Store, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		store:     store,
		version:   version,
		mcpServer: server.NewMCPServer("quizr", version, server.WithToolCapabilities(true)),
	}
	s.registerTools()
	return s
}

// Start serves /mcp on 127.0.0.1:port and returns the bound port. Port 0
// picks a free one.
func (s *Server) Start(ctx context.Context, port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.http != nil {
		return 0, errors.New("mcp server already running")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("mcp listen: %w", err)
	}
	s.port = ln.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true)))
	srv := &http.Server{
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	s.http = srv

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("mcp serve: %v", err)
		}
	}()
	logger.Info("mcp server listening on 127.0.0.1:%d", s.port)
	return s.port, nil
}

// Stop is a no-op when the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.http == nil {
		return nil
	}
	err := s.http.Shutdown(context.Background())
	s.http = nil
	if err != nil {
		return fmt.Errorf("mcp shutdown: %w", err)
	}
	return nil
}

func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
