// Package grpc exposes the engine services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/solcraft/internal/auth"
	"github.com/dmitrijs2005/solcraft/internal/logging"
	"github.com/dmitrijs2005/solcraft/internal/rpc"
	"github.com/dmitrijs2005/solcraft/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address  string
	logger   logging.Logger
	verifier *auth.Verifier
	routes   map[string]route
}

func NewGRPCServer(a string, l logging.Logger, engine *services.Engine, verifier *auth.Verifier) *GRPCServer {
	s := &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		verifier: verifier,
	}
	s.routes = newRoutes(engine)
	return s
}

// ServerOptions returns the interceptor chain the engine service expects.
func (s *GRPCServer) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.signatureInterceptor)}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(s.ServerOptions()...)
	rpc.RegisterEngineServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
