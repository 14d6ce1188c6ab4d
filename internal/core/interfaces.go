package core

//go:generate go tool mockgen -destination=./mocks/signal_mock.go -package=mocks . SignalConnection

// Frame is a raw encoded payload ready for the wire.
type Frame []byte

// SessionID identifies one live transport session.
type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend must never block. A full buffer is reported as ErrBackpressure.
	TrySend(Frame) error
	Close()
}
