package client

import (
	"context"

	"github.com/dmitrijs2005/gophcapsule/internal/rpc"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	InitializeConfig(ctx context.Context, price uint64, treasury string) (*rpc.ConfigResponse, error)
	UpdatePrice(ctx context.Context, newPrice uint64) error
	GetConfig(ctx context.Context) (*rpc.ConfigResponse, error)
	FundAccount(ctx context.Context, identity string, amount uint64) (uint64, error)
	GetBalance(ctx context.Context, identity string) (uint64, error)
	CreateCapsule(ctx context.Context, req *rpc.CreateCapsuleRequest) (*rpc.CreateCapsuleResponse, error)
	RetrieveMessage(ctx context.Context, capsuleID, passwordHash string) (string, error)
	MarkClaimed(ctx context.Context, capsuleID, passwordHash string) error
	GetCapsuleInfo(ctx context.Context, capsuleID string) (*rpc.CapsuleInfo, error)
	GetUserCapsules(ctx context.Context) ([]rpc.UserCapsule, error)
}
