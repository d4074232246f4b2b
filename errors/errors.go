package errors

import (
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrSessionNotFound = fmt.Errorf("session not found")
)

// MapToGRPCError translates an engine failure into the matching transport
// status. A nil error stays nil, an already shaped status is forwarded as
// is, anything unexpected becomes Internal.
func MapToGRPCError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case stderrors.Is(err, ErrInvalidConfig):
		return status.Error(codes.InvalidArgument, err.Error())
	case stderrors.Is(err, ErrWorkerPanic):
		return status.Error(codes.Internal, err.Error())
	default:
		if _, ok := status.FromError(err); ok {
			return err
		}
		return status.Error(codes.Internal, err.Error())
	}
}
