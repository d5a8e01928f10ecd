// Package grpc exposes the capsule services over gRPC using the CBOR codec
// from internal/rpc.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophcapsule/internal/logging"
	"github.com/dmitrijs2005/gophcapsule/internal/rpc"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
	"github.com/dmitrijs2005/gophcapsule/internal/server/rules"
	"google.golang.org/grpc"
)

type AdminService interface {
	InitializeConfig(ctx context.Context, caller string, price uint64, treasury string) (*models.Config, error)
	UpdatePrice(ctx context.Context, caller string, price uint64) error
	GetConfig(ctx context.Context) (*models.Config, error)
	FundAccount(ctx context.Context, caller, identity string, amount uint64) (uint64, error)
	GetBalance(ctx context.Context, identity string) (uint64, error)
}

type CapsuleService interface {
	CreateCapsule(ctx context.Context, sender string, in rules.CreateInput) (*models.Capsule, error)
	RetrieveMessage(ctx context.Context, id, passwordHash string) (string, error)
	MarkClaimed(ctx context.Context, id, passwordHash string) error
	GetCapsuleInfo(ctx context.Context, id string) (*models.CapsuleInfo, error)
	GetUserCapsules(ctx context.Context, caller string) ([]models.UserCapsuleInfo, error)
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]*models.Event, error)
}

// RPCObserver records per-call outcomes. *metrics.Metrics implements it.
type RPCObserver interface {
	ObserveRPC(method, code string, elapsed time.Duration)
}

type GRPCServer struct {
	address   string
	admin     AdminService
	capsules  CapsuleService
	observer  RPCObserver
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer builds the server; observer may be nil.
func NewGRPCServer(a string, l logging.Logger, admin AdminService, capsules CapsuleService,
	observer RPCObserver, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		admin:     admin,
		capsules:  capsules,
		observer:  observer,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{}
	if s.observer != nil {
		interceptors = append(interceptors, s.metricsInterceptor)
	}
	interceptors = append(interceptors, s.accessTokenInterceptor)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	rpc.RegisterCapsulesServer(srv, &handler{GRPCServer: s})
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
