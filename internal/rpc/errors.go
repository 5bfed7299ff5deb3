package rpc

import (
	"syntra-bizops/internal/apperr"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatus(err error) error {
	msg := apperr.Message(err)
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return status.Error(codes.NotFound, msg)
	case apperr.KindForbidden:
		return status.Error(codes.PermissionDenied, msg)
	case apperr.KindConflict:
		return status.Error(codes.AlreadyExists, msg)
	case apperr.KindInsufficientStock, apperr.KindSalaryNotSet:
		return status.Error(codes.FailedPrecondition, msg)
	case apperr.KindInvalidInput:
		return status.Error(codes.InvalidArgument, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
