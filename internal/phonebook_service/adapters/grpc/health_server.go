package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported alongside the overall ("") status.
const ServiceName = "phonebook.PhonebookItemService"

// Checker reports per-dependency state and overall health.
type Checker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// HealthServer exposes grpc.health.v1 with status refreshed from Checker.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	checker  Checker
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthServer(checker Checker, interval time.Duration, logger *slog.Logger) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := &HealthServer{
		server:   grpc.NewServer(),
		health:   health.NewServer(),
		checker:  checker,
		interval: interval,
		logger:   logger.With("component", "grpc_health"),
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Refresh runs the checks once and publishes the result.
func (s *HealthServer) Refresh(ctx context.Context) {
	states, healthy := s.checker.Check(ctx)
	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.WarnContext(ctx, "Dependency check failed", "dependencies", states)
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch refreshes the status every interval until ctx is done.
func (s *HealthServer) Watch(ctx context.Context) {
	s.Refresh(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Serve blocks serving on lis. A stopped server is not an error.
func (s *HealthServer) Serve(lis net.Listener) error {
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// GracefulStop marks everything NOT_SERVING and drains in-flight RPCs.
func (s *HealthServer) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
