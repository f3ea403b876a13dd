package resp

import (
	"bytes"
	"math"
	"math/big"
	"strconv"
)

// Pre-allocated byte slices for comparisons (avoid allocation in hot path)
var (
	crlfBytes = []byte(CRLF)
)

// token is one reply-tree node recognized by the scanner.
//
// payload aliases the reader buffer: it must be copied before the buffer is
// fed or compacted.
type token struct {
	tag     Tag
	payload []byte   // line content, or bulk payload without the verbatim header
	n       int64    // integer value, or aggregate element count
	double  float64  // TagDouble
	boolean bool     // TagBoolean
	big     *big.Int // TagBigNumber
	null    bool     // $-1, *-1 and friends
	size    int      // bytes consumed, tag and terminators included
}

// scanner tokenizes the unconsumed window of the buffer.
//
// It never consumes anything itself: scan either recognizes a complete token
// at the start of the window and reports its size, or reports that more input
// is needed. Resuming after a short read therefore restarts at the same tag
// byte.
type scanner struct {
	maxBuf      int   // 0 means unbounded
	maxElements int64 // 0 means unbounded
}

// scan recognizes the token at the start of w.
//
// Returns ok=false with a nil error when w holds only a prefix of a token.
// A *ProtocolError reports malformed input.
func (s *scanner) scan(w []byte) (tok token, ok bool, err error) {
	if len(w) == 0 {
		return token{}, false, nil
	}

	tok.tag = Tag(w[0])
	if !tok.tag.Valid() {
		return token{}, false, protocolErrorf("Protocol error, got %s as reply type byte", strconv.Quote(string(w[:1])))
	}

	// Every token starts with a CRLF terminated line
	end := bytes.Index(w[1:], crlfBytes)
	if end < 0 {
		if s.maxBuf > 0 && len(w) > s.maxBuf {
			return token{}, false, limitErrorf("Protocol error, %s line of more than %d bytes exceeds maxbuf %d", tok.tag, len(w), s.maxBuf)
		}
		return token{}, false, nil
	}
	line := w[1 : 1+end]
	tok.size = 1 + end + len(crlfBytes)

	switch tok.tag {
	case TagSimpleString, TagError:
		tok.payload = line

	case TagInteger:
		tok.n, ok = parseInt(line)
		if !ok {
			return token{}, false, protocolErrorf("Bad integer value")
		}

	case TagNull:
		if len(line) != 0 {
			return token{}, false, protocolErrorf("Bad nil value")
		}
		tok.null = true

	case TagBoolean:
		if len(line) != 1 || (line[0] != 't' && line[0] != 'f') {
			return token{}, false, protocolErrorf("Bad bool value")
		}
		tok.boolean = line[0] == 't'

	case TagDouble:
		tok.double, ok = parseDouble(line)
		if !ok {
			return token{}, false, protocolErrorf("Bad double value")
		}

	case TagBigNumber:
		tok.big, ok = parseBigNumber(line)
		if !ok {
			return token{}, false, protocolErrorf("Bad bignum value")
		}

	case TagBulkString, TagBulkError, TagVerbatimString:
		return s.scanBulk(w, tok, line)

	case TagArray, TagMap, TagSet, TagPush:
		count, valid := parseInt(line)
		if !valid {
			return token{}, false, protocolErrorf("Bad multi-bulk length")
		}
		if count < -1 || (s.maxElements > 0 && count > s.maxElements) || count > maxLength {
			return token{}, false, protocolErrorf("Multi-bulk length out of range")
		}
		tok.null = count == -1
		tok.n = count
	}

	return tok, true, nil
}

// scanBulk finishes a length-prefixed token whose header line is already
// known to be complete.
func (s *scanner) scanBulk(w []byte, tok token, line []byte) (token, bool, error) {
	length, valid := parseInt(line)
	if !valid {
		return token{}, false, protocolErrorf("Bad bulk string length")
	}
	if length == -1 {
		tok.null = true
		return tok, true, nil
	}
	if length < 0 || length > maxLength {
		return token{}, false, protocolErrorf("Bulk string length out of range")
	}

	// Header, payload and terminator must all fit in the window
	need := int64(tok.size) + length + int64(len(crlfBytes))
	if s.maxBuf > 0 && need > int64(s.maxBuf) {
		return token{}, false, limitErrorf("Protocol error, %s length %d exceeds maxbuf %d", tok.tag, length, s.maxBuf)
	}
	if int64(len(w)) < need {
		return token{}, false, nil
	}

	start := tok.size
	stop := start + int(length)
	if !bytes.Equal(w[stop:stop+len(crlfBytes)], crlfBytes) {
		return token{}, false, protocolErrorf("Protocol error, %s payload is not terminated by CRLF", tok.tag)
	}
	tok.payload = w[start:stop]
	tok.size = stop + len(crlfBytes)

	if tok.tag == TagVerbatimString {
		if len(tok.payload) < verbatimHeaderLen || tok.payload[verbatimHeaderLen-1] != ':' {
			return token{}, false, protocolErrorf("Verbatim string 4 bytes of content type are missing or incorrectly encoded.")
		}
		tok.payload = tok.payload[verbatimHeaderLen:]
	}

	return tok, true, nil
}

// parseInt parses a signed decimal int64 from a byte slice without allocation.
// Only an optional leading '-' and digits are accepted.
func parseInt(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}

	neg := b[0] == '-'
	if neg {
		b = b[1:]
		if len(b) == 0 {
			return 0, false
		}
	}

	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}

	var n uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := uint64(c - '0')
		if n > (limit-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}

	if neg {
		return int64(-n), true
	}
	return int64(n), true
}

// parseDouble accepts anything strconv does, including inf, -inf and nan,
// and rejects values that only overflow to infinity.
func parseDouble(b []byte) (float64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBigNumber(b []byte) (*big.Int, bool) {
	digits := b
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return nil, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, false
		}
	}
	return new(big.Int).SetString(string(b), 10)
}
