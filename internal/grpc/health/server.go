// Package health поднимает gRPC-сервер со стандартным сервисом grpc.health.v1.Health.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName имя сервиса для точечной проверки.
const ServiceName = "storefront"

type Server struct {
	addr   string
	log    *slog.Logger
	grpc   *grpc.Server
	health *grpchealth.Server
}

// New создаёт сервер. До вызова SetServing(true) сервис отвечает NOT_SERVING.
func New(addr string, log *slog.Logger) *Server {
	gs := grpc.NewServer()
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		addr:   addr,
		log:    log,
		grpc:   gs,
		health: hs,
	}
}

// SetServing переключает статус общего и именованного сервиса.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Serve обслуживает соединения на готовом listener до остановки.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// Run слушает addr и останавливается при отмене ctx.
func (s *Server) Run(ctx context.Context) error {
	const op = "grpc.health.Run"

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("gRPC health server listening on", slog.String("address", lis.Addr().String()))
		errCh <- s.grpc.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
}

// Stop помечает сервис неготовым и дожидается завершения активных вызовов.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
