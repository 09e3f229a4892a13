package server

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	// No blanket read/write timeouts: the /ws state stream holds its
	// connection open indefinitely.
	maxHeaderBytes = 1 << 20
)

// Server wraps http.Server with the lifecycle main() needs: Run blocks
// until the listener fails, Shutdown drains in-flight requests.
type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(port string, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              normalizeAddr(port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// normalizeAddr accepts "8080", ":8080" or "0.0.0.0:8080".
func normalizeAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
