package resp

import (
	"errors"
	"fmt"
	"strconv"
)

// Error types for the reader and the command packer.
// As with any wire decoder, the important question for a caller is whether
// the byte stream can still be trusted; ShouldCloseConnection answers it.

var (
	// ErrUnknownEncoding is wrapped by LookupError for unknown encoding names.
	ErrUnknownEncoding = errors.New("resp: unknown encoding")

	// ErrUnknownErrorMode is wrapped by LookupError for unknown error handlers.
	ErrUnknownErrorMode = errors.New("resp: unknown error handler")
)

// InvalidInputError reports malformed call arguments: out of range
// offsets and lengths given to FeedRange, or a negative maxbuf.
// No bytes are consumed when it is returned.
//
// Connection handling: the stream is untouched, connection can be REUSED
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return "resp: invalid input: " + e.Message
}

// ShouldCloseConnection returns false - nothing was consumed
func (e *InvalidInputError) ShouldCloseConnection() bool {
	return false
}

// ProtocolError reports malformed wire data: an unknown type byte, a
// non-numeric length, a length out of range, or a payload announced larger
// than the configured maxbuf.
//
// The reader position after a ProtocolError is undefined. The reader keeps
// returning the same error until Reset is called.
//
// Connection handling: CLOSE connection, the stream is desynchronized
type ProtocolError struct {
	Message string

	limit bool // raised by the maxbuf bound
}

func protocolErrorf(format string, args ...any) *ProtocolError {
	return &ProtocolError{Message: fmt.Sprintf(format, args...)}
}

func limitErrorf(format string, args ...any) *ProtocolError {
	return &ProtocolError{Message: fmt.Sprintf(format, args...), limit: true}
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// ShouldCloseConnection returns true - the stream is desynchronized
func (e *ProtocolError) ShouldCloseConnection() bool {
	return true
}

// DecodeError reports a string payload that could not be decoded under the
// configured encoding and error mode. It is deferred until the enclosing
// top-level reply is complete and then returned instead of that reply.
//
// Connection handling: the reply was fully consumed, connection can be REUSED
type DecodeError struct {
	Encoding string
	Data     []byte // offending payload
	Offset   int    // index of the first invalid byte, -1 when unknown
	Reason   string
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("resp: %s codec can't decode byte 0x%02x in position %d: %s",
			e.Encoding, e.Data[e.Offset], e.Offset, e.Reason)
	}
	return fmt.Sprintf("resp: %s codec can't decode payload: %s", e.Encoding, e.Reason)
}

// ShouldCloseConnection returns false - the reply was consumed in full
func (e *DecodeError) ShouldCloseConnection() bool {
	return false
}

// ReplyError is the default value delivered for error replies (- and !).
// It is a reply, not a failure of the reader: it appears inside the returned
// reply tree where the peer sent it.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string {
	return e.Message
}

// ShouldCloseConnection returns false - the peer reported an application error
func (e *ReplyError) ShouldCloseConnection() bool {
	return false
}

// NewReplyError is the default Config.ReplyError hook.
func NewReplyError(message string) (any, error) {
	return &ReplyError{Message: message}, nil
}

// ReplyHookError wraps a failure of the Config.ReplyError hook. It is
// deferred exactly like a DecodeError.
//
// Connection handling: the reply was fully consumed, connection can be REUSED
type ReplyHookError struct {
	Message string // error reply text given to the hook
	Err     error
}

func (e *ReplyHookError) Error() string {
	return "resp: reply error hook failed for " + strconv.Quote(e.Message) + ": " + e.Err.Error()
}

func (e *ReplyHookError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns false - the reply was consumed in full
func (e *ReplyHookError) ShouldCloseConnection() bool {
	return false
}

// InvalidArgumentError is returned by the packer for arguments that are not
// text, binary or numeric.
type InvalidArgumentError struct {
	Position int    // index of the offending argument
	Type     string // its Go type
}

func (e *InvalidArgumentError) Error() string {
	return "resp: argument " + strconv.Itoa(e.Position) + " has unsupported type " + e.Type +
		" (want string, []byte, integer or float)"
}

// LookupError reports an unknown encoding or error handler name given to
// NewReader or SetEncoding. The reader configuration is left unchanged.
type LookupError struct {
	Name string
	Err  error // ErrUnknownEncoding or ErrUnknownErrorMode
}

func (e *LookupError) Error() string {
	return e.Err.Error() + ": " + strconv.Quote(e.Name)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// ErrorWithConnectionState is implemented by errors that know whether the
// underlying byte stream is still usable.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err leaves the stream in a state
// that cannot be resumed.
//
// Returns true for:
//   - ProtocolError
//   - errors of unknown types
//
// Returns false for:
//   - InvalidInputError, DecodeError, ReplyHookError, ReplyError
//   - nil
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}
