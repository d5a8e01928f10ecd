package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// capsulesAPI is the generated-style stub; *rpc.CapsulesClient satisfies it.
type capsulesAPI interface {
	InitializeConfig(ctx context.Context, in *rpc.InitializeConfigRequest, opts ...grpc.CallOption) (*rpc.ConfigResponse, error)
	UpdatePrice(ctx context.Context, in *rpc.UpdatePriceRequest, opts ...grpc.CallOption) (*rpc.Empty, error)
	GetConfig(ctx context.Context, in *rpc.GetConfigRequest, opts ...grpc.CallOption) (*rpc.ConfigResponse, error)
	FundAccount(ctx context.Context, in *rpc.FundAccountRequest, opts ...grpc.CallOption) (*rpc.BalanceResponse, error)
	GetBalance(ctx context.Context, in *rpc.GetBalanceRequest, opts ...grpc.CallOption) (*rpc.BalanceResponse, error)
	CreateCapsule(ctx context.Context, in *rpc.CreateCapsuleRequest, opts ...grpc.CallOption) (*rpc.CreateCapsuleResponse, error)
	RetrieveMessage(ctx context.Context, in *rpc.RetrieveMessageRequest, opts ...grpc.CallOption) (*rpc.RetrieveMessageResponse, error)
	MarkClaimed(ctx context.Context, in *rpc.MarkClaimedRequest, opts ...grpc.CallOption) (*rpc.Empty, error)
	GetCapsuleInfo(ctx context.Context, in *rpc.GetCapsuleInfoRequest, opts ...grpc.CallOption) (*rpc.CapsuleInfo, error)
	GetUserCapsules(ctx context.Context, in *rpc.GetUserCapsulesRequest, opts ...grpc.CallOption) (*rpc.GetUserCapsulesResponse, error)
	Ping(ctx context.Context, in *rpc.PingRequest, opts ...grpc.CallOption) (*rpc.PingResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      capsulesAPI
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily; the first call establishes the
// connection.
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewCapsulesClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &rpc.PingRequest{})
	return s.mapError(err)
}

func (s *GRPCClient) InitializeConfig(ctx context.Context, price uint64, treasury string) (*rpc.ConfigResponse, error) {
	resp, err := s.client.InitializeConfig(ctx, &rpc.InitializeConfigRequest{Price: price, Treasury: treasury})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) UpdatePrice(ctx context.Context, newPrice uint64) error {
	_, err := s.client.UpdatePrice(ctx, &rpc.UpdatePriceRequest{NewPrice: newPrice})
	return s.mapError(err)
}

func (s *GRPCClient) GetConfig(ctx context.Context) (*rpc.ConfigResponse, error) {
	resp, err := s.client.GetConfig(ctx, &rpc.GetConfigRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) FundAccount(ctx context.Context, identity string, amount uint64) (uint64, error) {
	resp, err := s.client.FundAccount(ctx, &rpc.FundAccountRequest{Identity: identity, Amount: amount})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Balance, nil
}

func (s *GRPCClient) GetBalance(ctx context.Context, identity string) (uint64, error) {
	resp, err := s.client.GetBalance(ctx, &rpc.GetBalanceRequest{Identity: identity})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.Balance, nil
}

func (s *GRPCClient) CreateCapsule(ctx context.Context, req *rpc.CreateCapsuleRequest) (*rpc.CreateCapsuleResponse, error) {
	resp, err := s.client.CreateCapsule(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) RetrieveMessage(ctx context.Context, capsuleID, passwordHash string) (string, error) {
	resp, err := s.client.RetrieveMessage(ctx, &rpc.RetrieveMessageRequest{CapsuleID: capsuleID, PasswordHash: passwordHash})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.EncryptedMessage, nil
}

func (s *GRPCClient) MarkClaimed(ctx context.Context, capsuleID, passwordHash string) error {
	_, err := s.client.MarkClaimed(ctx, &rpc.MarkClaimedRequest{CapsuleID: capsuleID, PasswordHash: passwordHash})
	return s.mapError(err)
}

func (s *GRPCClient) GetCapsuleInfo(ctx context.Context, capsuleID string) (*rpc.CapsuleInfo, error) {
	resp, err := s.client.GetCapsuleInfo(ctx, &rpc.GetCapsuleInfoRequest{CapsuleID: capsuleID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) GetUserCapsules(ctx context.Context) ([]rpc.UserCapsule, error) {
	resp, err := s.client.GetUserCapsules(ctx, &rpc.GetUserCapsulesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Capsules == nil {
		return []rpc.UserCapsule{}, nil
	}
	return resp.Capsules, nil
}

// knownErrors are the sentinels whose messages the server passes through.
var knownErrors = []error{
	common.ErrInvalidUnlockTime,
	common.ErrMessageTooLong,
	common.ErrHintTooLong,
	common.ErrTitleTooLong,
	common.ErrInvalidEmailHash,
	common.ErrInvalidPasswordHash,
	common.ErrUnauthorizedAccess,
	common.ErrInvalidTreasury,
	common.ErrStillLocked,
	common.ErrInvalidPassword,
	common.ErrInsufficientBalance,
	common.ErrAmountOverflow,
	common.ErrorNotFound,
	common.ErrConfigNotInitialized,
	common.ErrAlreadyInitialized,
	common.ErrCapsuleExists,
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}
	for _, known := range knownErrors {
		if st.Message() == known.Error() {
			return known
		}
	}
	return fmt.Errorf("rpc error: %s: %s", st.Code(), st.Message())
}
