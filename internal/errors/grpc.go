package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Status converts err to a gRPC status. Coded errors keep their code,
// context cancellation and deadlines map to Canceled and
// DeadlineExceeded, and anything else is Unknown. A coded Internal error
// that wraps a context error reports the context code.
func Status(err error) *status.Status {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		return st
	}

	var customErr *Error
	coded := errors.As(err, &customErr)
	if coded && customErr.Code != CodeInternal {
		return status.New(customErr.Code.GRPCCode(), err.Error())
	}

	st := status.FromContextError(err)
	if st.Code() == codes.Unknown && coded {
		return status.New(codes.Internal, err.Error())
	}
	return st
}

// ExitCode returns the process exit status for err: 0 on success and the
// numeric gRPC code otherwise
func ExitCode(err error) int {
	return int(Status(err).Code())
}

// GRPCCode returns the corresponding gRPC code
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeOK:
		return codes.OK
	case CodeCanceled:
		return codes.Canceled
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeNotFound:
		return codes.NotFound
	case CodeAlreadyExists:
		return codes.AlreadyExists
	case CodeFailedPrecondition:
		return codes.FailedPrecondition
	case CodeOutOfRange:
		return codes.OutOfRange
	case CodeUnimplemented:
		return codes.Unimplemented
	case CodeInternal:
		return codes.Internal
	case CodeUnavailable:
		return codes.Unavailable
	case CodeDataLoss:
		return codes.DataLoss
	default:
		return codes.Unknown
	}
}
