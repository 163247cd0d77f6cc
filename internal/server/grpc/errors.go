package grpc

import (
	"errors"

	"github.com/dmitrijs2005/solcraft/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps an engine error onto a gRPC status. Request errors keep
// their message; anything else is reported as internal.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrVersionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, common.ErrAuthorization):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrPrecondition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
