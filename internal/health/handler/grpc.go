// Package handler reports readiness over the standard gRPC health protocol and HTTP /healthz.
package handler

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"authify/backend/internal/http/response"
)

// pingTimeout bounds a single readiness probe.
const pingTimeout = 2 * time.Second

// Pinger is a dependency that can be probed, e.g. *sql.DB or a Redis client adapter.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Server implements grpc.health.v1.Health. Check pings every dependency; Watch is not supported.
type Server struct {
	healthpb.UnimplementedHealthServer
	deps map[string]Pinger
}

// NewServer returns a health server probing deps by name. Nil pingers are skipped.
func NewServer(deps map[string]Pinger) *Server {
	m := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			m[name] = p
		}
	}
	return &Server{deps: m}
}

// Check returns SERVING when every dependency answers within pingTimeout. The service name in
// the request is ignored: the process is either ready or not.
func (s *Server) Check(ctx context.Context, _ *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if failed := s.probe(ctx); len(failed) > 0 {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

// Watch is not implemented; clients poll Check.
func (s *Server) Watch(*healthpb.HealthCheckRequest, healthpb.Health_WatchServer) error {
	return status.Error(codes.Unimplemented, "method Watch not implemented")
}

// ServeHTTP answers /healthz with 200 or 503 and the names of failing dependencies.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if failed := s.probe(r.Context()); len(failed) > 0 {
		response.Error(w, r, http.StatusServiceUnavailable, "NOT_READY", "unavailable: "+strings.Join(failed, ", "))
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) probe(ctx context.Context) []string {
	var failed []string
	for name, p := range s.deps {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := p.PingContext(pctx)
		cancel()
		if err != nil {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}
