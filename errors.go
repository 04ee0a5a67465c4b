package wlclient

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures. Only LocalInvariantViolation leaves the
// connection usable; every other kind breaks it.
type ErrorKind uint8

const (
	// LocalInvariantViolation reports a bad call: a disallowed null, a
	// request the object's version does not support, a destroyed object.
	LocalInvariantViolation ErrorKind = iota + 1
	// CodecError reports malformed bytes received from the compositor.
	CodecError
	// TransportError reports a failed socket operation.
	TransportError
	// PeerErrorKind reports a wl_display.error event.
	PeerErrorKind
	// ProtocolViolation reports a well-formed message the compositor was
	// not allowed to send.
	ProtocolViolation
)

func (k ErrorKind) String() string {
	switch k {
	case LocalInvariantViolation:
		return "local invariant violation"
	case CodecError:
		return "malformed message"
	case TransportError:
		return "transport error"
	case PeerErrorKind:
		return "protocol error"
	case ProtocolViolation:
		return "protocol violation"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Fatal reports whether errors of this kind break the connection.
func (k ErrorKind) Fatal() bool {
	return k != LocalInvariantViolation
}

var (
	ErrVersionTooLow   = errors.New("request not supported by object version")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrObjectDestroyed = errors.New("object has been destroyed")
	ErrNotMain         = errors.New("operation requires the main proxy")
	ErrClosed          = errors.New("display connection closed")
	ErrIDInUse         = errors.New("object id already in use")
	ErrWouldBlock      = errors.New("operation would block")
	ErrUnknownObject   = errors.New("unknown object")
	ErrBadServerID     = errors.New("new id outside the server range")
)

// Error is returned by every operation that fails. Err carries the cause and
// is reachable with errors.Is and errors.As.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return "wlclient: " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "wlclient: " + e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so callers can test
// errors.Is(err, &wlclient.Error{Kind: wlclient.ProtocolViolation}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

func localError(op string, err error) error {
	return &Error{Kind: LocalInvariantViolation, Op: op, Err: err}
}

// PeerError is the content of a wl_display.error event.
type PeerError struct {
	ObjectID  uint32
	Interface string
	Code      uint32
	Message   string
}

func (e *PeerError) Error() string {
	if e.Interface != "" {
		return fmt.Sprintf("%s#%d: error %d: %s", e.Interface, e.ObjectID, e.Code, e.Message)
	}
	return fmt.Sprintf("object %d: error %d: %s", e.ObjectID, e.Code, e.Message)
}

// KindOf returns the kind of err, or 0 when err did not come from this
// package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
