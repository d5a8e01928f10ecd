package client

import (
	"context"
	"net"
	"testing"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// stubServer implements just what the tests call.
type stubServer struct {
	rpc.CapsulesServer
	tokens    []string
	createErr error
}

func (s *stubServer) record(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	s.tokens = append(s.tokens, md.Get(common.AccessTokenHeaderName)...)
}

func (s *stubServer) Ping(ctx context.Context, _ *rpc.PingRequest) (*rpc.PingResponse, error) {
	s.record(ctx)
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *stubServer) GetBalance(ctx context.Context, in *rpc.GetBalanceRequest) (*rpc.BalanceResponse, error) {
	s.record(ctx)
	return &rpc.BalanceResponse{Identity: in.Identity, Balance: 42}, nil
}

func (s *stubServer) CreateCapsule(ctx context.Context, in *rpc.CreateCapsuleRequest) (*rpc.CreateCapsuleResponse, error) {
	s.record(ctx)
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &rpc.CreateCapsuleResponse{CapsuleID: "cap-" + in.Seed, Space: 205}, nil
}

func (s *stubServer) GetUserCapsules(ctx context.Context, _ *rpc.GetUserCapsulesRequest) (*rpc.GetUserCapsulesResponse, error) {
	return &rpc.GetUserCapsulesResponse{}, nil
}

func newTestClient(t *testing.T, srv rpc.CapsulesServer, token string) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	rpc.RegisterCapsulesServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", token,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_AttachesToken(t *testing.T) {
	stub := &stubServer{}
	c := newTestClient(t, stub, "tok-1")
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	bal, err := c.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), bal)

	assert.Equal(t, []string{"tok-1", "tok-1"}, stub.tokens)
}

func TestGRPCClient_NoTokenNoHeader(t *testing.T) {
	stub := &stubServer{}
	c := newTestClient(t, stub, "")

	require.NoError(t, c.Ping(context.Background()))
	assert.Empty(t, stub.tokens)
}

func TestGRPCClient_CreateMapsKnownError(t *testing.T) {
	stub := &stubServer{createErr: status.Error(codes.FailedPrecondition, common.ErrInsufficientBalance.Error())}
	c := newTestClient(t, stub, "tok")

	_, err := c.CreateCapsule(context.Background(), &rpc.CreateCapsuleRequest{Seed: "s"})
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)
}

func TestGRPCClient_GetUserCapsulesNeverNil(t *testing.T) {
	c := newTestClient(t, &stubServer{}, "tok")

	list, err := c.GetUserCapsules(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unauthenticated", status.Error(codes.Unauthenticated, "missing token"), ErrUnauthorized},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), ErrUnavailable},
		{"locked", status.Error(codes.FailedPrecondition, common.ErrStillLocked.Error()), common.ErrStillLocked},
		{"password", status.Error(codes.PermissionDenied, common.ErrInvalidPassword.Error()), common.ErrInvalidPassword},
		{"input", status.Error(codes.InvalidArgument, common.ErrTitleTooLong.Error()), common.ErrTitleTooLong},
		{"not found", status.Error(codes.NotFound, common.ErrorNotFound.Error()), common.ErrorNotFound},
		{"exists", status.Error(codes.AlreadyExists, common.ErrCapsuleExists.Error()), common.ErrCapsuleExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.mapError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapError_UnknownKeepsMessage(t *testing.T) {
	c := &GRPCClient{}
	err := c.mapError(status.Error(codes.Internal, "internal error"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal error")
}
