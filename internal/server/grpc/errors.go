package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidTreasury, codes.InvalidArgument},
	{common.ErrUnauthorizedAccess, codes.PermissionDenied},
	{common.ErrInvalidPassword, codes.PermissionDenied},
	{common.ErrStillLocked, codes.FailedPrecondition},
	{common.ErrInsufficientBalance, codes.FailedPrecondition},
	{common.ErrAmountOverflow, codes.FailedPrecondition},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrConfigNotInitialized, codes.NotFound},
	{common.ErrAlreadyInitialized, codes.AlreadyExists},
	{common.ErrCapsuleExists, codes.AlreadyExists},
}

// toStatus maps a service error onto a gRPC status. Known errors keep their
// message; anything else is logged and reported as an opaque internal error.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	if common.IsInputError(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			return status.Error(m.code, m.err.Error())
		}
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.Error(ctx, "request failed", "op", op, "error", err)
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
