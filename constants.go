package resp

import (
	"math"
	"strconv"
)

// Tag is the one-byte type marker that starts every reply on the wire.
type Tag byte

// Protocol delimiters
const (
	// CRLF terminates every line of the protocol
	CRLF = "\r\n"
)

// Reply type tags.
//
// Scalar tags resolve to a single value once their line (or bulk payload) is
// buffered. Aggregate tags announce an element count and expect that many
// child replies; a map announces entries and therefore expects twice as many.
const (
	// TagSimpleString: +<string>\r\n
	TagSimpleString Tag = '+'

	// TagError: -<message>\r\n
	TagError Tag = '-'

	// TagInteger: :<number>\r\n
	TagInteger Tag = ':'

	// TagBulkString: $<length>\r\n<bytes>\r\n ($-1\r\n is null)
	TagBulkString Tag = '$'

	// TagArray: *<count>\r\n<reply>... (*-1\r\n is null)
	TagArray Tag = '*'

	// TagNull: _\r\n
	TagNull Tag = '_'

	// TagBoolean: #t\r\n or #f\r\n
	TagBoolean Tag = '#'

	// TagDouble: ,<floating-point-number>\r\n
	TagDouble Tag = ','

	// TagBigNumber: (<big number>\r\n
	TagBigNumber Tag = '('

	// TagBulkError: !<length>\r\n<bytes>\r\n
	TagBulkError Tag = '!'

	// TagVerbatimString: =<length>\r\n<fmt>:<bytes>\r\n
	TagVerbatimString Tag = '='

	// TagMap: %<count>\r\n<key><value>...
	TagMap Tag = '%'

	// TagSet: ~<count>\r\n<member>...
	TagSet Tag = '~'

	// TagPush: ><count>\r\n<reply>...
	TagPush Tag = '>'
)

// Limits
const (
	// DefaultMaxBuf is the buffer ceiling used when none is configured.
	// It matches the server-side default for the largest accepted bulk string.
	DefaultMaxBuf = 512 * 1024 * 1024

	// DefaultMaxElements bounds the element count an aggregate may announce.
	DefaultMaxElements = 1<<32 - 1

	// maxLength bounds any announced length or count, limits disabled or not
	maxLength = math.MaxUint32

	// compactThreshold is the consumed prefix size that triggers compaction
	compactThreshold = 1024

	// idleBufferCap is the largest backing array kept once the buffer drains
	idleBufferCap = 16 * 1024

	// maxPrealloc caps container capacity reserved from an announced count
	maxPrealloc = 1024

	// verbatimHeaderLen is the "txt:" prefix carried by verbatim strings
	verbatimHeaderLen = 4
)

// Aggregate reports whether the tag announces child replies.
func (t Tag) Aggregate() bool {
	switch t {
	case TagArray, TagMap, TagSet, TagPush:
		return true
	}
	return false
}

// Valid reports whether t is a recognized reply type.
func (t Tag) Valid() bool {
	switch t {
	case TagSimpleString, TagError, TagInteger, TagBulkString, TagArray,
		TagNull, TagBoolean, TagDouble, TagBigNumber, TagBulkError,
		TagVerbatimString, TagMap, TagSet, TagPush:
		return true
	}
	return false
}

func (t Tag) String() string {
	switch t {
	case TagSimpleString:
		return "simple-string"
	case TagError:
		return "error"
	case TagInteger:
		return "integer"
	case TagBulkString:
		return "bulk-string"
	case TagArray:
		return "array"
	case TagNull:
		return "null"
	case TagBoolean:
		return "boolean"
	case TagDouble:
		return "double"
	case TagBigNumber:
		return "big-number"
	case TagBulkError:
		return "bulk-error"
	case TagVerbatimString:
		return "verbatim-string"
	case TagMap:
		return "map"
	case TagSet:
		return "set"
	case TagPush:
		return "push"
	}
	return "unknown(" + strconv.Quote(string(rune(t))) + ")"
}
