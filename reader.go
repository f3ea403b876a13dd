package resp

import (
	"errors"

	"go.uber.org/zap"
)

// Reader is an incremental RESP reply decoder.
//
// Bytes are handed to Feed in whatever chunks they arrive; GetReply returns
// one complete top-level reply at a time, or ok=false when the buffered
// bytes hold only part of one. Parsing resumes where it stopped, so a reply
// split across any number of Feed calls decodes exactly like one fed whole.
//
// A Reader is not safe for concurrent use. Stats may be read from any
// goroutine.
type Reader struct {
	buf  buffer
	scan scanner
	tree builder

	text   *textDecoder // nil: strings stay []byte
	decode bool         // current call applies text

	// pending is the first decode or reply hook failure of the reply under
	// construction.
	pending error

	// err is the sticky protocol failure, returned until Reset.
	err error

	replyError    func(string) (any, error)
	protocolError func(string) error

	logger *zap.Logger
	stats  *readerStatsCollector
}

// NewReader creates a Reader. Unknown encoding or error mode names return a
// *LookupError.
func NewReader(config Config) (*Reader, error) {
	text, err := newTextDecoder(config.Encoding, config.Errors)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		scan: scanner{
			maxBuf:      config.maxBuf(),
			maxElements: config.maxElements(),
		},
		text:          text,
		replyError:    config.ReplyError,
		protocolError: config.ProtocolError,
		logger:        config.Logger,
		stats:         newReaderStatsCollector(),
	}
	if r.replyError == nil {
		r.replyError = NewReplyError
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

// Feed appends data to the buffer. The bytes are copied.
func (r *Reader) Feed(data []byte) {
	if len(data) == 0 {
		return
	}
	r.buf.feed(data)
	r.stats.recordFeed(len(data))
}

// FeedRange appends data[offset:offset+length]. A length of -1 means the
// rest of data. Out of range arguments return *InvalidInputError and feed
// nothing.
func (r *Reader) FeedRange(data []byte, offset, length int) error {
	if length == -1 {
		length = len(data) - offset
	}
	if offset < 0 || length < 0 {
		return &InvalidInputError{Message: "negative input"}
	}
	if offset > len(data) || length > len(data)-offset {
		return &InvalidInputError{Message: "input is larger than buffer size"}
	}

	r.Feed(data[offset : offset+length])
	return nil
}

// GetReply returns the next complete reply with strings decoded under the
// configured encoding. ok is false when no complete reply is buffered yet.
//
// A *ProtocolError (or the ProtocolError hook's result) is returned for
// malformed input and keeps being returned until Reset. A *DecodeError or
// *ReplyHookError is returned in place of the reply that caused it, once;
// the reader then carries on with the next reply.
func (r *Reader) GetReply() (reply any, ok bool, err error) {
	return r.getReply(true)
}

// GetRawReply is GetReply with strings returned as []byte whatever the
// configured encoding.
func (r *Reader) GetRawReply() (reply any, ok bool, err error) {
	return r.getReply(false)
}

func (r *Reader) getReply(decode bool) (any, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	r.decode = decode

	for {
		tok, ok, err := r.scan.scan(r.buf.window())
		if err != nil {
			return nil, false, r.fail(err)
		}
		if !ok {
			r.stats.recordIncomplete()
			r.compact()
			return nil, false, nil
		}

		root, done := r.build(tok)
		r.buf.advance(tok.size)
		if !done {
			continue
		}

		r.compact()
		if r.pending != nil {
			err := r.pending
			r.pending = nil
			r.stats.recordDeferredError()
			r.logger.Debug("reply discarded after deferred error", zap.Error(err))
			return nil, false, err
		}
		r.stats.recordReply()
		return root, true, nil
	}
}

// build turns a token into a reply value and hands it to the tree.
func (r *Reader) build(tok token) (any, bool) {
	if tok.tag.Aggregate() {
		if tok.null {
			return r.tree.deliver(nil)
		}
		return r.tree.open(tok.tag, int(tok.n))
	}

	switch tok.tag {
	case TagSimpleString, TagBulkString, TagVerbatimString:
		if tok.null {
			return r.tree.deliver(nil)
		}
		return r.tree.deliver(r.stringValue(tok.payload))

	case TagError, TagBulkError:
		if tok.null {
			return r.tree.deliver(nil)
		}
		return r.tree.deliver(r.errorValue(tok.payload))

	case TagInteger:
		return r.tree.deliver(tok.n)
	case TagDouble:
		return r.tree.deliver(tok.double)
	case TagBoolean:
		return r.tree.deliver(tok.boolean)
	case TagBigNumber:
		return r.tree.deliver(tok.big)
	}

	// TagNull
	return r.tree.deliver(nil)
}

func (r *Reader) stringValue(payload []byte) any {
	if r.text == nil || !r.decode {
		return clone(payload)
	}
	s, err := r.text.decode(payload)
	if err != nil {
		r.deferError(err)
		return nil
	}
	return s
}

func (r *Reader) errorValue(payload []byte) any {
	msg := errorText(payload)
	v, err := r.replyError(msg)
	if err != nil {
		r.deferError(&ReplyHookError{Message: msg, Err: err})
		return nil
	}
	return v
}

// deferError keeps the first failure of the current reply.
func (r *Reader) deferError(err error) {
	if r.pending != nil {
		return
	}
	r.pending = err
	r.logger.Debug("deferring error until reply completes",
		zap.Error(err),
		zap.Int("depth", r.tree.depth()),
	)
}

// fail makes a protocol failure sticky and returns the error to report.
func (r *Reader) fail(err error) error {
	var perr *ProtocolError
	limit := errors.As(err, &perr) && perr.limit

	r.logger.Warn("protocol error",
		zap.Int("pos", r.buf.pos),
		zap.Int("len", r.buf.length()),
		zap.String("message", err.Error()),
		zap.Bool("maxbuf", limit),
	)
	r.stats.recordProtocolError(limit)

	if r.protocolError != nil {
		if custom := r.protocolError(err.Error()); custom != nil {
			err = custom
		}
	}

	r.tree.reset()
	r.pending = nil
	r.err = err
	return err
}

func (r *Reader) compact() {
	if r.buf.compact() {
		r.stats.recordCompaction()
		r.logger.Debug("buffer compacted", zap.Int("len", r.buf.length()))
	}
}

// SetMaxBuf sets the most bytes a single token may need buffered. Zero
// removes the limit. Negative values return *InvalidInputError.
func (r *Reader) SetMaxBuf(n int) error {
	if n < 0 {
		return &InvalidInputError{Message: "maxbuf value out of range"}
	}
	r.scan.maxBuf = n
	return nil
}

// ResetMaxBuf restores DefaultMaxBuf.
func (r *Reader) ResetMaxBuf() {
	r.scan.maxBuf = DefaultMaxBuf
}

// MaxBuf returns the current limit, 0 when unbounded.
func (r *Reader) MaxBuf() int {
	return r.scan.maxBuf
}

// Len returns the number of buffered bytes, including the consumed prefix
// not yet compacted away.
func (r *Reader) Len() int {
	return r.buf.length()
}

// HasData reports whether unconsumed bytes are buffered.
func (r *Reader) HasData() bool {
	return r.buf.hasData()
}

// Pending reports whether part of a reply is buffered or under
// construction. Tokens of an unfinished aggregate are consumed as they are
// read, so HasData alone does not tell whether the stream ended mid-reply.
func (r *Reader) Pending() bool {
	return !r.tree.idle() || r.buf.hasData()
}

// SetEncoding changes the text encoding and error mode for subsequent
// replies. An empty encoding returns strings as []byte. On a *LookupError
// the previous settings are kept.
func (r *Reader) SetEncoding(encoding string, mode ErrorMode) error {
	text, err := newTextDecoder(encoding, mode)
	if err != nil {
		return err
	}
	r.text = text
	return nil
}

// Reset discards buffered bytes, the partial reply, any deferred error and
// a sticky protocol error. Configuration and stats are kept.
func (r *Reader) Reset() {
	r.buf.reset()
	r.tree.reset()
	r.pending = nil
	r.err = nil
}

// Stats returns a snapshot of the reader statistics.
func (r *Reader) Stats() ReaderStats {
	return r.stats.snapshot()
}
