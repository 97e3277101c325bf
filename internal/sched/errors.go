package sched

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes scheduling errors.
type ErrorCode string

const (
	// ErrCodeCollision indicates two schedules occupy the same channel at
	// the same time during composition. Always fatal to that composition
	// call, never silently resolved.
	ErrCodeCollision ErrorCode = "COLLISION"

	// ErrCodeEmptyChannelSet indicates a channel-scoped time query matched
	// none of the requested channels. Callers must treat this as "no
	// constraint", not as time zero.
	ErrCodeEmptyChannelSet ErrorCode = "EMPTY_CHANNEL_SET"

	// ErrCodeBackendUnconfigured indicates a backend-dependent operation
	// was attempted without a configured backend.
	ErrCodeBackendUnconfigured ErrorCode = "BACKEND_UNCONFIGURED"

	// ErrCodeNoActiveContext indicates an authoring call was made with no
	// open builder context.
	ErrCodeNoActiveContext ErrorCode = "NO_ACTIVE_CONTEXT"

	// ErrCodeUnsupportedAlignment indicates an unknown alignment policy
	// name was supplied.
	ErrCodeUnsupportedAlignment ErrorCode = "UNSUPPORTED_ALIGNMENT"

	// ErrCodeUnsupportedRegisterType indicates an acquisition was given a
	// result register on a channel kind that cannot store results.
	ErrCodeUnsupportedRegisterType ErrorCode = "UNSUPPORTED_REGISTER_TYPE"
)

// Error is a structured scheduling error with a machine-readable code.
//
// Collision errors carry the offending channel and the two intervals that
// overlap, for diagnostics.
type Error struct {
	Code    ErrorCode
	Message string

	// Channel is set for collision and register-type errors.
	Channel *Channel

	// A and B are the overlapping intervals for collision errors.
	A, B Interval
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == ErrCodeCollision && e.Channel != nil {
		return fmt.Sprintf("%s: %s (channel=%s, %s overlaps %s)",
			e.Code, e.Message, e.Channel, e.A, e.B)
	}
	if e.Channel != nil {
		return fmt.Sprintf("%s: %s (channel=%s)", e.Code, e.Message, e.Channel)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCollisionError creates a collision error for two overlapping intervals
// on a channel.
func NewCollisionError(ch Channel, a, b Interval) *Error {
	return &Error{
		Code:    ErrCodeCollision,
		Message: "schedules overlap on shared channel",
		Channel: &ch,
		A:       a,
		B:       b,
	}
}

// NewEmptyChannelSetError creates an error for a channel time query that
// matched no occupied channels.
func NewEmptyChannelSetError() *Error {
	return &Error{
		Code:    ErrCodeEmptyChannelSet,
		Message: "none of the requested channels appear in this schedule",
	}
}

// codeIs reports whether err is (or wraps) an *Error with the given code.
func codeIs(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsCollision reports whether err is a channel collision error.
func IsCollision(err error) bool { return codeIs(err, ErrCodeCollision) }

// IsEmptyChannelSet reports whether err is an empty channel set error.
func IsEmptyChannelSet(err error) bool { return codeIs(err, ErrCodeEmptyChannelSet) }

// IsBackendUnconfigured reports whether err is a missing backend error.
func IsBackendUnconfigured(err error) bool { return codeIs(err, ErrCodeBackendUnconfigured) }

// IsNoActiveContext reports whether err is a missing builder context error.
func IsNoActiveContext(err error) bool { return codeIs(err, ErrCodeNoActiveContext) }

// IsUnsupportedAlignment reports whether err is an unknown alignment error.
func IsUnsupportedAlignment(err error) bool { return codeIs(err, ErrCodeUnsupportedAlignment) }

// IsUnsupportedRegisterType reports whether err is an unsupported register error.
func IsUnsupportedRegisterType(err error) bool { return codeIs(err, ErrCodeUnsupportedRegisterType) }
