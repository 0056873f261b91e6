package errors

// MetaReason is the metadata key holding a domain reason
const MetaReason = "reason"

// Domain reasons
const (
	ReasonIllegalPhase      = "illegal_phase"
	ReasonEmptyCollection   = "empty_collection"
	ReasonUnknownActionType = "unknown_action_type"
)

// IllegalPhasef reports an action attempted outside the phase that allows it.
// The caller must not retry without the phase changing.
func IllegalPhasef(format string, args ...any) *Error {
	return FailedPreconditionf(format, args...).WithMeta(MetaReason, ReasonIllegalPhase)
}

// EmptyCollection reports a random selection over an empty input
func EmptyCollection(message string) *Error {
	return InvalidArgument(message).WithMeta(MetaReason, ReasonEmptyCollection)
}

// UnknownActionTypef reports an unrecognised combat action tag
func UnknownActionTypef(format string, args ...any) *Error {
	return InvalidArgumentf(format, args...).WithMeta(MetaReason, ReasonUnknownActionType)
}

// IsIllegalPhase checks if an error is an illegal phase error
func IsIllegalPhase(err error) bool {
	return hasReason(err, CodeFailedPrecondition, ReasonIllegalPhase)
}

// IsEmptyCollection checks if an error is an empty collection error
func IsEmptyCollection(err error) bool {
	return hasReason(err, CodeInvalidArgument, ReasonEmptyCollection)
}

// IsUnknownActionType checks if an error is an unknown action type error
func IsUnknownActionType(err error) bool {
	return hasReason(err, CodeInvalidArgument, ReasonUnknownActionType)
}

func hasReason(err error, code Code, reason string) bool {
	if GetCode(err) != code {
		return false
	}
	r, ok := GetMeta(err)[MetaReason].(string)
	return ok && r == reason
}
