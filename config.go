package resp

import "go.uber.org/zap"

// Config holds configuration for a Reader. The zero value is ready to use:
// raw []byte strings, DefaultMaxBuf, DefaultMaxElements, *ReplyError values
// for error replies and *ProtocolError failures.
type Config struct {
	// Encoding decodes simple, bulk and verbatim strings into Go strings.
	// Accepts utf-8, ascii, latin-1, utf-16 (with -le / -be variants) and any
	// IANA or WHATWG encoding name.
	// Empty means strings are returned as []byte.
	Encoding string

	// Errors is the handling of undecodable bytes when Encoding is set.
	// Empty means ErrorsStrict.
	Errors ErrorMode

	// MaxBuf is the most bytes a single reply token may need buffered.
	// Zero means DefaultMaxBuf, negative means no limit.
	MaxBuf int

	// MaxElements is the largest element count an aggregate may announce.
	// Zero means DefaultMaxElements, negative means no limit.
	MaxElements int64

	// ReplyError builds the value delivered for error replies. It receives the
	// message decoded as UTF-8 with replacement. A failure is deferred to the
	// completion of the enclosing reply and returned as *ReplyHookError.
	// If nil, NewReplyError is used.
	ReplyError func(message string) (any, error)

	// ProtocolError builds the error returned for malformed input. A nil
	// result falls back to *ProtocolError.
	// If nil, *ProtocolError is used.
	ProtocolError func(message string) error

	// Logger receives diagnostics. If nil, logging is disabled.
	Logger *zap.Logger
}

func (c Config) maxBuf() int {
	switch {
	case c.MaxBuf == 0:
		return DefaultMaxBuf
	case c.MaxBuf < 0:
		return 0
	}
	return c.MaxBuf
}

func (c Config) maxElements() int64 {
	switch {
	case c.MaxElements == 0:
		return DefaultMaxElements
	case c.MaxElements < 0:
		return 0
	}
	return c.MaxElements
}
