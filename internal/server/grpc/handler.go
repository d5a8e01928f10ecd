package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophcapsule/internal/rpc"
	"github.com/dmitrijs2005/gophcapsule/internal/server/rules"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type handler struct {
	*GRPCServer
}

var _ rpc.CapsulesServer = (*handler)(nil)

func (h *handler) caller(ctx context.Context) (string, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing identity")
	}
	return id, nil
}

func (h *handler) InitializeConfig(ctx context.Context, req *rpc.InitializeConfigRequest) (*rpc.ConfigResponse, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := h.admin.InitializeConfig(ctx, caller, req.Price, req.Treasury)
	if err != nil {
		return nil, h.toStatus(ctx, "InitializeConfig", err)
	}

	return &rpc.ConfigResponse{Price: cfg.Price, Authority: cfg.Authority, Treasury: cfg.Treasury}, nil
}

func (h *handler) UpdatePrice(ctx context.Context, req *rpc.UpdatePriceRequest) (*rpc.Empty, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.admin.UpdatePrice(ctx, caller, req.NewPrice); err != nil {
		return nil, h.toStatus(ctx, "UpdatePrice", err)
	}
	return &rpc.Empty{}, nil
}

func (h *handler) GetConfig(ctx context.Context, _ *rpc.GetConfigRequest) (*rpc.ConfigResponse, error) {
	cfg, err := h.admin.GetConfig(ctx)
	if err != nil {
		return nil, h.toStatus(ctx, "GetConfig", err)
	}
	return &rpc.ConfigResponse{Price: cfg.Price, Authority: cfg.Authority, Treasury: cfg.Treasury}, nil
}

func (h *handler) FundAccount(ctx context.Context, req *rpc.FundAccountRequest) (*rpc.BalanceResponse, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Identity == "" {
		return nil, status.Error(codes.InvalidArgument, "identity is required")
	}

	balance, err := h.admin.FundAccount(ctx, caller, req.Identity, req.Amount)
	if err != nil {
		return nil, h.toStatus(ctx, "FundAccount", err)
	}
	return &rpc.BalanceResponse{Identity: req.Identity, Balance: balance}, nil
}

func (h *handler) GetBalance(ctx context.Context, req *rpc.GetBalanceRequest) (*rpc.BalanceResponse, error) {
	balance, err := h.admin.GetBalance(ctx, req.Identity)
	if err != nil {
		return nil, h.toStatus(ctx, "GetBalance", err)
	}
	return &rpc.BalanceResponse{Identity: req.Identity, Balance: balance}, nil
}

func (h *handler) CreateCapsule(ctx context.Context, req *rpc.CreateCapsuleRequest) (*rpc.CreateCapsuleResponse, error) {
	sender, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}

	c, err := h.capsules.CreateCapsule(ctx, sender, rules.CreateInput{
		Seed:               req.Seed,
		EncryptedMessage:   req.EncryptedMessage,
		UnlockTimestamp:    req.UnlockTimestamp,
		RecipientEmailHash: req.RecipientEmailHash,
		PasswordHash:       req.PasswordHash,
		PasswordHint:       req.PasswordHint,
		MessageTitle:       req.MessageTitle,
		Treasury:           req.Treasury,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "CreateCapsule", err)
	}

	return &rpc.CreateCapsuleResponse{
		CapsuleID:   c.ID,
		CreatedAt:   c.CreatedAt,
		Space:       c.Space,
		FeePaid:     c.FeePaid,
		RentDeposit: c.RentDeposit,
	}, nil
}

func (h *handler) RetrieveMessage(ctx context.Context, req *rpc.RetrieveMessageRequest) (*rpc.RetrieveMessageResponse, error) {
	msg, err := h.capsules.RetrieveMessage(ctx, req.CapsuleID, req.PasswordHash)
	if err != nil {
		return nil, h.toStatus(ctx, "RetrieveMessage", err)
	}
	return &rpc.RetrieveMessageResponse{EncryptedMessage: msg}, nil
}

func (h *handler) MarkClaimed(ctx context.Context, req *rpc.MarkClaimedRequest) (*rpc.Empty, error) {
	if err := h.capsules.MarkClaimed(ctx, req.CapsuleID, req.PasswordHash); err != nil {
		return nil, h.toStatus(ctx, "MarkClaimed", err)
	}
	return &rpc.Empty{}, nil
}

func (h *handler) GetCapsuleInfo(ctx context.Context, req *rpc.GetCapsuleInfoRequest) (*rpc.CapsuleInfo, error) {
	info, err := h.capsules.GetCapsuleInfo(ctx, req.CapsuleID)
	if err != nil {
		return nil, h.toStatus(ctx, "GetCapsuleInfo", err)
	}
	return &rpc.CapsuleInfo{
		Sender:          info.Sender,
		UnlockTimestamp: info.UnlockTimestamp,
		PasswordHint:    info.PasswordHint,
		MessageTitle:    info.MessageTitle,
		CreatedAt:       info.CreatedAt,
		IsClaimed:       info.IsClaimed,
	}, nil
}

func (h *handler) GetUserCapsules(ctx context.Context, _ *rpc.GetUserCapsulesRequest) (*rpc.GetUserCapsulesResponse, error) {
	caller, err := h.caller(ctx)
	if err != nil {
		return nil, err
	}

	list, err := h.capsules.GetUserCapsules(ctx, caller)
	if err != nil {
		return nil, h.toStatus(ctx, "GetUserCapsules", err)
	}

	resp := &rpc.GetUserCapsulesResponse{Capsules: make([]rpc.UserCapsule, 0, len(list))}
	for _, c := range list {
		resp.Capsules = append(resp.Capsules, rpc.UserCapsule{
			CapsuleID:       c.CapsuleID,
			UnlockTimestamp: c.UnlockTimestamp,
			MessageTitle:    c.MessageTitle,
			IsClaimed:       c.IsClaimed,
		})
	}
	return resp, nil
}

func (h *handler) ListEvents(ctx context.Context, req *rpc.ListEventsRequest) (*rpc.ListEventsResponse, error) {
	evs, err := h.capsules.ListEvents(ctx, req.AfterSeq, req.Limit)
	if err != nil {
		return nil, h.toStatus(ctx, "ListEvents", err)
	}

	resp := &rpc.ListEventsResponse{Events: make([]rpc.Event, 0, len(evs))}
	for _, ev := range evs {
		resp.Events = append(resp.Events, rpc.Event{
			Seq:             ev.Seq,
			Kind:            string(ev.Kind),
			CapsuleID:       ev.CapsuleID,
			Sender:          ev.Sender,
			UnlockTimestamp: ev.UnlockTimestamp,
			CreatedAt:       ev.CreatedAt,
			ClaimedAt:       ev.ClaimedAt,
		})
	}
	return resp, nil
}

func (h *handler) Ping(context.Context, *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}
