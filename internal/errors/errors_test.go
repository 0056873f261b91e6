package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	err := errors.New(errors.CodeNotFound, "quest not found")
	s.Equal("NOT_FOUND: quest not found", err.Error())
	s.Equal(errors.CodeNotFound, err.Code)
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	base := errors.NotFound("session missing").WithMeta("session_id", "abc")
	wrapped := errors.Wrap(base, "failed to load session")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal("failed to load session", wrapped.Message)
	s.Equal("abc", errors.GetMeta(wrapped)["session_id"])
	s.Equal(base, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapStandardError() {
	wrapped := errors.Wrap(fmt.Errorf("disk full"), "failed to save")
	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Nil(errors.Wrap(nil, "nothing"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "nothing"))
}

func (s *ErrorsTestSuite) TestDomainReasons() {
	phase := errors.IllegalPhasef("cannot act during %s phase", "enemy")
	s.True(errors.IsIllegalPhase(phase))
	s.True(errors.IsFailedPrecondition(phase))
	s.False(errors.IsEmptyCollection(phase))

	empty := errors.EmptyCollection("cannot pick from an empty slice")
	s.True(errors.IsEmptyCollection(errors.Wrap(empty, "failed to pick giver")))
	s.False(errors.IsUnknownActionType(empty))

	unknown := errors.UnknownActionTypef("unknown action %q", "dance")
	s.True(errors.IsUnknownActionType(unknown))
	s.True(errors.IsInvalidArgument(unknown))

	s.False(errors.IsIllegalPhase(errors.FailedPreconditionf("plain")))
	s.False(errors.IsIllegalPhase(nil))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	s.Equal("friendly", errors.GetMessage(errors.NotFound("friendly")))
	s.Equal("standard error", errors.GetMessage(fmt.Errorf("standard error")))
	s.Equal("", errors.GetMessage(nil))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestStatus() {
	testCases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "nil", err: nil, code: codes.OK},
		{name: "coded", err: errors.IllegalPhasef("combat is over"), code: codes.FailedPrecondition},
		{name: "wrapped keeps code", err: errors.Wrap(errors.NotFound("no such quest"), "failed to load"), code: codes.NotFound},
		{name: "grpc status passes through", err: status.Error(codes.Unavailable, "down"), code: codes.Unavailable},
		{name: "deadline", err: fmt.Errorf("saving: %w", context.DeadlineExceeded), code: codes.DeadlineExceeded},
		{name: "internal wrapping deadline", err: errors.Wrap(context.DeadlineExceeded, "redis ping"), code: codes.DeadlineExceeded},
		{name: "internal", err: errors.Internal("boom"), code: codes.Internal},
		{name: "plain", err: fmt.Errorf("unknown flag: --nope"), code: codes.Unknown},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.code, errors.Status(tc.err).Code())
			s.Equal(int(tc.code), errors.ExitCode(tc.err))
		})
	}
}

func (s *ErrorsTestSuite) TestStatusMessageKeepsChain() {
	err := errors.Wrap(errors.NotFound("session abc not found"), "failed to load session abc")
	s.Equal(err.Error(), errors.Status(err).Message())
}
