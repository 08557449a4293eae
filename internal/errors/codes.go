// Package errors provides structured error handling for the world server.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Interaction errors
	CodeInteractionPerformerRequired Code = "INTERACTION_PERFORMER_REQUIRED"
	CodeInteractionNegativeDuration  Code = "INTERACTION_NEGATIVE_DURATION"

	// Progress errors
	CodeProgressPositionOccupied Code = "PROGRESS_POSITION_OCCUPIED"
	CodeProgressHandleUnknown    Code = "PROGRESS_HANDLE_UNKNOWN"

	// Entity errors
	CodeEntityEmptyRef Code = "ENTITY_EMPTY_REF"

	// Script errors
	CodeScriptLoadFailed    Code = "SCRIPT_LOAD_FAILED"
	CodeScriptInvalidItem   Code = "SCRIPT_INVALID_ITEM"
	CodeScriptUnknownTrait  Code = "SCRIPT_UNKNOWN_TRAIT"
	CodeScriptInvalidReturn Code = "SCRIPT_INVALID_RETURN"

	// World definition errors
	CodeWorldDefInvalid Code = "WORLD_DEF_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Random/seed errors
	CodeSeedUnavailable Code = "SEED_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeInteractionPerformerRequired,
		CodeInteractionNegativeDuration,
		CodeEntityEmptyRef,
		CodeScriptInvalidItem,
		CodeScriptUnknownTrait,
		CodeScriptInvalidReturn,
		CodeWorldDefInvalid:
		return codes.InvalidArgument
	case CodeProgressPositionOccupied:
		return codes.FailedPrecondition
	case CodeProgressHandleUnknown, CodeNotFound:
		return codes.NotFound
	case CodeScriptLoadFailed, CodeSeedUnavailable:
		return codes.Internal
	default:
		return codes.Unknown
	}
}
