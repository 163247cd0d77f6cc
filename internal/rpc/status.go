package rpc

import (
	"github.com/dmitrijs2005/solcraft/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromStatus restores the engine error class carried by a gRPC status, so
// callers on the client side can match it with errors.Is.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var class error
	switch st.Code() {
	case codes.OK:
		return nil
	case codes.NotFound:
		class = common.ErrorNotFound
	case codes.Aborted:
		class = common.ErrVersionConflict
	case codes.PermissionDenied, codes.Unauthenticated:
		class = common.ErrAuthorization
	case codes.FailedPrecondition:
		class = common.ErrPrecondition
	case codes.InvalidArgument:
		class = common.ErrInvalidInput
	default:
		return err
	}
	return &remoteError{class: class, msg: st.Message()}
}

type remoteError struct {
	class error
	msg   string
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.class }
