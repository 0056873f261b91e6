// Package errors provides the structured error type used across rpg-engine.
//
// Errors carry a Code, a message, an optional cause and free-form metadata.
// Wrapping keeps the code of the innermost structured error, so callers can
// branch on semantics without string matching:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save session")
//	}
//
// # Domain reasons
//
// The resolution engine distinguishes three programmer-facing failures that
// share generic codes. They are tagged with a "reason" metadata entry:
//
//   - IllegalPhase: a combat action was attempted outside its phase
//     (CodeFailedPrecondition).
//   - EmptyCollection: a random pick was asked to choose from nothing
//     (CodeInvalidArgument).
//   - UnknownActionType: a combat action tag the engine does not recognise
//     (CodeInvalidArgument).
//
// Use IsIllegalPhase, IsEmptyCollection and IsUnknownActionType to test for
// them. Quest and progression operations never return these; they report
// failure through result values instead.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Resolver == nil {
//	    vb.RequiredField("Resolver")
//	}
//	return vb.Build()
//
// # Status codes
//
// Status maps any error onto a gRPC status code and ExitCode turns that code
// into the process exit status of the command line tool.
package errors
