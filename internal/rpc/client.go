package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// CapsulesClient calls the service over any connection, forcing the CBOR codec.
type CapsulesClient struct {
	cc grpc.ClientConnInterface
}

func NewCapsulesClient(cc grpc.ClientConnInterface) *CapsulesClient {
	return &CapsulesClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CapsulesClient) InitializeConfig(ctx context.Context, in *InitializeConfigRequest, opts ...grpc.CallOption) (*ConfigResponse, error) {
	return invoke[ConfigResponse](ctx, c.cc, MethodInitializeConfig, in, opts)
}

func (c *CapsulesClient) UpdatePrice(ctx context.Context, in *UpdatePriceRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdatePrice, in, opts)
}

func (c *CapsulesClient) GetConfig(ctx context.Context, in *GetConfigRequest, opts ...grpc.CallOption) (*ConfigResponse, error) {
	return invoke[ConfigResponse](ctx, c.cc, MethodGetConfig, in, opts)
}

func (c *CapsulesClient) FundAccount(ctx context.Context, in *FundAccountRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, MethodFundAccount, in, opts)
}

func (c *CapsulesClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, MethodGetBalance, in, opts)
}

func (c *CapsulesClient) CreateCapsule(ctx context.Context, in *CreateCapsuleRequest, opts ...grpc.CallOption) (*CreateCapsuleResponse, error) {
	return invoke[CreateCapsuleResponse](ctx, c.cc, MethodCreateCapsule, in, opts)
}

func (c *CapsulesClient) RetrieveMessage(ctx context.Context, in *RetrieveMessageRequest, opts ...grpc.CallOption) (*RetrieveMessageResponse, error) {
	return invoke[RetrieveMessageResponse](ctx, c.cc, MethodRetrieveMessage, in, opts)
}

func (c *CapsulesClient) MarkClaimed(ctx context.Context, in *MarkClaimedRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodMarkClaimed, in, opts)
}

func (c *CapsulesClient) GetCapsuleInfo(ctx context.Context, in *GetCapsuleInfoRequest, opts ...grpc.CallOption) (*CapsuleInfo, error) {
	return invoke[CapsuleInfo](ctx, c.cc, MethodGetCapsuleInfo, in, opts)
}

func (c *CapsulesClient) GetUserCapsules(ctx context.Context, in *GetUserCapsulesRequest, opts ...grpc.CallOption) (*GetUserCapsulesResponse, error) {
	return invoke[GetUserCapsulesResponse](ctx, c.cc, MethodGetUserCapsules, in, opts)
}

func (c *CapsulesClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsResponse](ctx, c.cc, MethodListEvents, in, opts)
}

func (c *CapsulesClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}
