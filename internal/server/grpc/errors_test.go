package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	s := newTestServer("k")

	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrInvalidUnlockTime, codes.InvalidArgument},
		{common.ErrMessageTooLong, codes.InvalidArgument},
		{common.ErrHintTooLong, codes.InvalidArgument},
		{common.ErrTitleTooLong, codes.InvalidArgument},
		{common.ErrInvalidEmailHash, codes.InvalidArgument},
		{common.ErrInvalidPasswordHash, codes.InvalidArgument},
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
		{fmt.Errorf("wrapped: %w", common.ErrStillLocked), codes.FailedPrecondition},
		{context.Canceled, codes.Canceled},
		{errors.New("db error: connection reset"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(s.toStatus(context.Background(), "op", tt.err)))
		})
	}
}

func TestToStatus_HidesInternalDetails(t *testing.T) {
	s := newTestServer("k")
	st, _ := status.FromError(s.toStatus(context.Background(), "op", errors.New("db error: password=hunter2")))
	assert.Equal(t, "internal error", st.Message())

	st, _ = status.FromError(s.toStatus(context.Background(), "op", common.ErrStillLocked))
	assert.Equal(t, "this time capsule is still locked", st.Message())
}
