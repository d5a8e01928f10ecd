package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "gophcapsule.Capsules"

// Full method names, as seen by interceptors.
const (
	MethodInitializeConfig = "/" + ServiceName + "/InitializeConfig"
	MethodUpdatePrice      = "/" + ServiceName + "/UpdatePrice"
	MethodGetConfig        = "/" + ServiceName + "/GetConfig"
	MethodFundAccount      = "/" + ServiceName + "/FundAccount"
	MethodGetBalance       = "/" + ServiceName + "/GetBalance"
	MethodCreateCapsule    = "/" + ServiceName + "/CreateCapsule"
	MethodRetrieveMessage  = "/" + ServiceName + "/RetrieveMessage"
	MethodMarkClaimed      = "/" + ServiceName + "/MarkClaimed"
	MethodGetCapsuleInfo   = "/" + ServiceName + "/GetCapsuleInfo"
	MethodGetUserCapsules  = "/" + ServiceName + "/GetUserCapsules"
	MethodListEvents       = "/" + ServiceName + "/ListEvents"
	MethodPing             = "/" + ServiceName + "/Ping"
)

type CapsulesServer interface {
	InitializeConfig(context.Context, *InitializeConfigRequest) (*ConfigResponse, error)
	UpdatePrice(context.Context, *UpdatePriceRequest) (*Empty, error)
	GetConfig(context.Context, *GetConfigRequest) (*ConfigResponse, error)
	FundAccount(context.Context, *FundAccountRequest) (*BalanceResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*BalanceResponse, error)
	CreateCapsule(context.Context, *CreateCapsuleRequest) (*CreateCapsuleResponse, error)
	RetrieveMessage(context.Context, *RetrieveMessageRequest) (*RetrieveMessageResponse, error)
	MarkClaimed(context.Context, *MarkClaimedRequest) (*Empty, error)
	GetCapsuleInfo(context.Context, *GetCapsuleInfoRequest) (*CapsuleInfo, error)
	GetUserCapsules(context.Context, *GetUserCapsulesRequest) (*GetUserCapsulesResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(CapsulesServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CapsulesServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CapsulesServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CapsulesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "InitializeConfig", Handler: unaryHandler(MethodInitializeConfig, CapsulesServer.InitializeConfig)},
		{MethodName: "UpdatePrice", Handler: unaryHandler(MethodUpdatePrice, CapsulesServer.UpdatePrice)},
		{MethodName: "GetConfig", Handler: unaryHandler(MethodGetConfig, CapsulesServer.GetConfig)},
		{MethodName: "FundAccount", Handler: unaryHandler(MethodFundAccount, CapsulesServer.FundAccount)},
		{MethodName: "GetBalance", Handler: unaryHandler(MethodGetBalance, CapsulesServer.GetBalance)},
		{MethodName: "CreateCapsule", Handler: unaryHandler(MethodCreateCapsule, CapsulesServer.CreateCapsule)},
		{MethodName: "RetrieveMessage", Handler: unaryHandler(MethodRetrieveMessage, CapsulesServer.RetrieveMessage)},
		{MethodName: "MarkClaimed", Handler: unaryHandler(MethodMarkClaimed, CapsulesServer.MarkClaimed)},
		{MethodName: "GetCapsuleInfo", Handler: unaryHandler(MethodGetCapsuleInfo, CapsulesServer.GetCapsuleInfo)},
		{MethodName: "GetUserCapsules", Handler: unaryHandler(MethodGetUserCapsules, CapsulesServer.GetUserCapsules)},
		{MethodName: "ListEvents", Handler: unaryHandler(MethodListEvents, CapsulesServer.ListEvents)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, CapsulesServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophcapsule/capsules",
}

func RegisterCapsulesServer(s grpc.ServiceRegistrar, srv CapsulesServer) {
	s.RegisterService(&ServiceDesc, srv)
}
