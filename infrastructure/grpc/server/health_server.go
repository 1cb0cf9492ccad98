package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name probes can ask for, next to the overall "" status.
const ServiceName = "chat-relay"

// HealthServer exposes the standard gRPC health service while the chat server runs.
type HealthServer struct {
	log    *slog.Logger
	host   string
	port   int
	health *health.Server
}

func NewHealthServer(log *slog.Logger, host string, port int) *HealthServer {
	return &HealthServer{log: log, host: host, port: port, health: health.NewServer()}
}

// Run binds the configured address and serves until ctx is done.
func (h *HealthServer) Run(ctx context.Context) error {
	address := net.JoinHostPort(h.host, strconv.Itoa(h.port))
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return h.Serve(ctx, lis)
}

func (h *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, h.health)
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	errChan := make(chan error, 1)
	go func() {
		h.log.Info("Starting gRPC health server", "address", lis.Addr().String())
		if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC health server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		h.health.Shutdown()
		s.GracefulStop()
		return nil
	case err := <-errChan:
		return err
	}
}
