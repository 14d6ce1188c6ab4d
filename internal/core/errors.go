package core

import (
	"errors"
	"fmt"
)

var (
	ErrBackpressure  = errors.New("backpressure")
	ErrClosed        = errors.New("connection closed")
	ErrProtocol      = errors.New("bad payload")
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotInRoom     = errors.New("not in a room")
	ErrAlreadyInRoom = errors.New("already in a room")
	ErrUnknownEvent  = errors.New("unknown event")
	ErrRateLimited   = errors.New("rate limited")
)

// ProtocolError reports a malformed or incomplete inbound event.
type ProtocolError struct {
	Event  EventKind
	Field  string
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Event, e.Reason)
	}
	return fmt.Sprintf("%s: field %q %s", e.Event, e.Field, e.Reason)
}

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// Missing is shorthand for a required field that was absent.
func Missing(ev EventKind, field string) error {
	return &ProtocolError{Event: ev, Field: field, Reason: "is required"}
}

// ErrorCode maps an error to the short code sent back to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrProtocol):
		return "bad_payload"
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrNotInRoom):
		return "room_not_found"
	case errors.Is(err, ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, ErrUnknownEvent):
		return "unknown_event"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrClosed):
		return "not_connected"
	default:
		return "internal"
	}
}
