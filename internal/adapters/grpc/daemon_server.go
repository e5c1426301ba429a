package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// StatusFunc reports live daemon figures for the Health call
type StatusFunc func(ctx context.Context) (ticks uint64, agents int)

// DaemonServer serves the office service on a unix socket
type DaemonServer struct {
	mediator   mediator.Mediator
	listener   net.Listener
	server     *grpc.Server
	logger     *slog.Logger
	instanceID string
	startedAt  time.Time
	status     StatusFunc
}

// NewDaemonServer listens on socketPath, replacing a stale socket file.
// The socket is readable by the owner only.
func NewDaemonServer(m mediator.Mediator, socketPath, instanceID string, status StatusFunc, logger *slog.Logger) (*DaemonServer, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return newDaemonServer(m, listener, instanceID, status, logger), nil
}

// NewDaemonServerOnListener serves on an existing listener; tests use bufconn
func NewDaemonServerOnListener(m mediator.Mediator, listener net.Listener, instanceID string, status StatusFunc, logger *slog.Logger) *DaemonServer {
	return newDaemonServer(m, listener, instanceID, status, logger)
}

func newDaemonServer(m mediator.Mediator, listener net.Listener, instanceID string, status StatusFunc, logger *slog.Logger) *DaemonServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DaemonServer{
		mediator:   m,
		listener:   listener,
		logger:     logger,
		instanceID: instanceID,
		startedAt:  time.Now(),
		status:     status,
	}
	s.server = grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggerInterceptor, errorInterceptor))
	RegisterOfficeServiceServer(s.server, newOfficeService(s))
	return s
}

// Serve blocks until ctx is cancelled, then drains in-flight calls
func (s *DaemonServer) Serve(ctx context.Context) error {
	s.logger.Info("daemon listening", "socket", s.listener.Addr().String(), "instance_id", s.instanceID)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("stopping gRPC server")
		s.server.GracefulStop()
		return nil
	}
}

func (s *DaemonServer) health(ctx context.Context) HealthReply {
	reply := HealthReply{
		Status:     "ok",
		InstanceID: s.instanceID,
		Uptime:     time.Since(s.startedAt).Truncate(time.Second).String(),
	}
	if s.status != nil {
		reply.Ticks, reply.Agents = s.status(ctx)
	}
	return reply
}

// loggerInterceptor puts the daemon logger on the request context
func (s *DaemonServer) loggerInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx = logging.WithLogger(ctx, s.logger.With("rpc", info.FullMethod))
	return handler(ctx, req)
}

// errorInterceptor maps domain errors onto gRPC status codes
func errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

func toStatus(err error) error {
	var (
		notFound   *shared.AgentNotFoundError
		validation *shared.ValidationError
		badRoom    *shared.InvalidRoomError
		transition *shared.InvalidTransitionError
	)
	switch {
	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &validation), errors.As(err, &badRoom):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &transition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, shared.ErrStoreContended):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
