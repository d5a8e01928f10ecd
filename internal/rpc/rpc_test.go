package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// stubServer answers a few methods; the embedded nil interface makes every
// other method panic if reached.
type stubServer struct {
	CapsulesServer
	lastCreate *CreateCapsuleRequest
	seenMethod string
}

func (s *stubServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (s *stubServer) CreateCapsule(_ context.Context, in *CreateCapsuleRequest) (*CreateCapsuleResponse, error) {
	s.lastCreate = in
	return &CreateCapsuleResponse{CapsuleID: "id-1", CreatedAt: 10, Space: 217, FeePaid: ^uint64(0)}, nil
}

func (s *stubServer) GetUserCapsules(context.Context, *GetUserCapsulesRequest) (*GetUserCapsulesResponse, error) {
	return &GetUserCapsulesResponse{Capsules: []UserCapsule{{CapsuleID: "a", IsClaimed: true}}}, nil
}

func (s *stubServer) MarkClaimed(context.Context, *MarkClaimedRequest) (*Empty, error) {
	return nil, status.Error(codes.FailedPrecondition, "this time capsule is still locked")
}

func newTestClient(t *testing.T, srv CapsulesServer, opts ...grpc.ServerOption) *CapsulesClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterCapsulesServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewCapsulesClient(conn)
}

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestRoundTrip(t *testing.T) {
	stub := &stubServer{}
	client := newTestClient(t, stub)
	ctx := context.Background()

	pong, err := client.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)

	req := &CreateCapsuleRequest{
		Seed:             "seed",
		EncryptedMessage: "sealed",
		UnlockTimestamp:  1_900_000_000,
		PasswordHint:     "héllo",
		Treasury:         "t",
	}
	resp, err := client.CreateCapsule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, &CreateCapsuleResponse{CapsuleID: "id-1", CreatedAt: 10, Space: 217, FeePaid: ^uint64(0)}, resp)
	if diff := cmp.Diff(req, stub.lastCreate); diff != "" {
		t.Fatalf("request mismatch (-sent +received):\n%s", diff)
	}

	list, err := client.GetUserCapsules(ctx, &GetUserCapsulesRequest{})
	require.NoError(t, err)
	assert.Equal(t, []UserCapsule{{CapsuleID: "a", IsClaimed: true}}, list.Capsules)
}

func TestStatusPropagates(t *testing.T) {
	client := newTestClient(t, &stubServer{})

	_, err := client.MarkClaimed(context.Background(), &MarkClaimedRequest{CapsuleID: "x"})
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Equal(t, "this time capsule is still locked", st.Message())
}

func TestInterceptorSeesFullMethod(t *testing.T) {
	stub := &stubServer{}
	client := newTestClient(t, stub, grpc.UnaryInterceptor(
		func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			stub.seenMethod = info.FullMethod
			return handler(ctx, req)
		}))

	_, err := client.Ping(context.Background(), &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, MethodPing, stub.seenMethod)
}
