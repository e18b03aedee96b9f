// Package errors provides structured domain errors with machine-readable
// codes and gRPC status mapping for transport callers.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lookup errors
	CodeSessionNotFound  Code = "SESSION_NOT_FOUND"
	CodeTeamNotFound     Code = "TEAM_NOT_FOUND"
	CodeActivityNotFound Code = "ACTIVITY_NOT_FOUND"

	// Lifecycle errors
	CodeGameNotActive         Code = "GAME_NOT_ACTIVE"
	CodeGameCompleted         Code = "GAME_COMPLETED"
	CodeAlreadySubmitted      Code = "DECISION_ALREADY_SUBMITTED"
	CodeActivityAlreadyActive Code = "ACTIVITY_ALREADY_ACTIVE"

	// Decision validation errors
	CodeOverBudget           Code = "DECISION_OVER_BUDGET"
	CodeNegativeAllocation   Code = "DECISION_NEGATIVE_ALLOCATION"
	CodeActivityNotCuttable  Code = "ACTIVITY_NOT_CUTTABLE"
	CodeActivityNotOptional  Code = "ACTIVITY_NOT_OPTIONAL"
	CodeAlreadyEliminated    Code = "ACTIVITY_ALREADY_ELIMINATED"
	CodeEliminationForbidden Code = "ACTIVITY_ELIMINATION_FORBIDDEN"

	// Input errors
	CodeEmptyTeamName    Code = "TEAM_NAME_EMPTY"
	CodeInvalidTeamCount Code = "TEAM_COUNT_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeOverBudget,
		CodeNegativeAllocation,
		CodeActivityNotCuttable,
		CodeActivityNotOptional,
		CodeAlreadyEliminated,
		CodeEliminationForbidden,
		CodeEmptyTeamName,
		CodeInvalidTeamCount:
		return codes.InvalidArgument

	// NotFound - missing records
	case CodeSessionNotFound,
		CodeTeamNotFound,
		CodeActivityNotFound:
		return codes.NotFound

	// FailedPrecondition - valid request, wrong state
	case CodeGameNotActive,
		CodeGameCompleted,
		CodeAlreadySubmitted,
		CodeActivityAlreadyActive:
		return codes.FailedPrecondition

	default:
		return codes.Internal
	}
}
