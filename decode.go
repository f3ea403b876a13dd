package resp

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrorMode selects how undecodable bytes in string payloads are handled.
type ErrorMode string

const (
	// ErrorsStrict fails the reply with a DecodeError (default).
	ErrorsStrict ErrorMode = "strict"

	// ErrorsIgnore drops undecodable bytes.
	ErrorsIgnore ErrorMode = "ignore"

	// ErrorsReplace substitutes U+FFFD for undecodable bytes.
	ErrorsReplace ErrorMode = "replace"

	// ErrorsBackslashReplace substitutes \xNN escapes for undecodable bytes.
	ErrorsBackslashReplace ErrorMode = "backslashreplace"
)

type codec int

const (
	codecUTF8 codec = iota
	codecASCII
	codecText // any golang.org/x/text encoding
)

// aliases maps the common short names to encodings the indexes do not know
// under that spelling.
var aliases = map[string]encoding.Encoding{
	"latin-1":   charmap.ISO8859_1,
	"latin1":    charmap.ISO8859_1,
	"l1":        charmap.ISO8859_1,
	"utf-16":    unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf16":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16-le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16-be": unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-16be":  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// textDecoder turns string payloads into Go strings under one encoding and
// error mode. A nil *textDecoder means payloads stay []byte.
type textDecoder struct {
	name  string
	codec codec
	enc   encoding.Encoding
	mode  ErrorMode

	replacement []byte // enc's encoding of U+FFFD
}

// newTextDecoder validates both names eagerly. An empty encoding returns a
// nil decoder; an empty mode means ErrorsStrict.
func newTextDecoder(name string, mode ErrorMode) (*textDecoder, error) {
	mode, err := lookupErrorMode(mode)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	d := &textDecoder{name: name, mode: mode}

	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	switch key {
	case "utf-8", "utf8", "u8", "utf":
		d.codec = codecUTF8
		return d, nil
	case "ascii", "us-ascii", "646":
		d.codec = codecASCII
		return d, nil
	}

	enc := lookupEncoding(key)
	if enc == nil {
		return nil, &LookupError{Name: name, Err: ErrUnknownEncoding}
	}
	d.codec = codecText
	d.enc = enc
	d.replacement = replacementChar(enc)
	return d, nil
}

func lookupEncoding(key string) encoding.Encoding {
	if enc, ok := aliases[key]; ok {
		return enc
	}
	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		return enc
	}
	if enc, err := htmlindex.Get(key); err == nil {
		return enc
	}
	return nil
}

func lookupErrorMode(mode ErrorMode) (ErrorMode, error) {
	switch ErrorMode(strings.ToLower(string(mode))) {
	case "":
		return ErrorsStrict, nil
	case ErrorsStrict:
		return ErrorsStrict, nil
	case ErrorsIgnore:
		return ErrorsIgnore, nil
	case ErrorsReplace:
		return ErrorsReplace, nil
	case ErrorsBackslashReplace:
		return ErrorsBackslashReplace, nil
	}
	return "", &LookupError{Name: string(mode), Err: ErrUnknownErrorMode}
}

// decode returns the text form of b, or a *DecodeError under ErrorsStrict.
func (d *textDecoder) decode(b []byte) (string, error) {
	switch d.codec {
	case codecUTF8:
		if utf8.Valid(b) {
			return string(b), nil
		}
		if d.mode == ErrorsStrict {
			return "", &DecodeError{Encoding: d.name, Data: clone(b), Offset: firstInvalidUTF8(b), Reason: "invalid start byte"}
		}
		return repairUTF8(b, d.mode), nil

	case codecASCII:
		i := firstNonASCII(b)
		if i < 0 {
			return string(b), nil
		}
		if d.mode == ErrorsStrict {
			return "", &DecodeError{Encoding: d.name, Data: clone(b), Offset: i, Reason: "ordinal not in range(128)"}
		}
		return repairASCII(b, d.mode), nil
	}

	return d.decodeText(b)
}

// decodeText decodes b with an x/text codec. Those codecs emit U+FFFD for
// invalid input, so when the output holds one the payload is decoded again
// one character at a time, and a U+FFFD is invalid unless its source bytes
// are an encoding of U+FFFD.
func (d *textDecoder) decodeText(b []byte) (string, error) {
	out, err := d.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", &DecodeError{Encoding: d.name, Data: clone(b), Offset: -1, Reason: err.Error()}
	}
	if !bytes.ContainsRune(out, utf8.RuneError) {
		return string(out), nil
	}

	var sb strings.Builder
	sb.Grow(len(out))

	dec := d.enc.NewDecoder()
	var buf [16]byte
	limit := 3 // room for one U+FFFD and nothing after it

	for i, j := 0, 1; i < len(b); {
		nDst, nSrc, err := dec.Transform(buf[:limit], b[i:j], j == len(b))
		if nSrc > 0 {
			chunk, span := buf[:nDst], b[i:i+nSrc]
			if bytes.ContainsRune(chunk, utf8.RuneError) && !d.isReplacementChar(span) {
				if d.mode == ErrorsStrict {
					return "", &DecodeError{Encoding: d.name, Data: clone(b), Offset: i, Reason: "invalid byte sequence"}
				}
				writeInvalidSpan(&sb, span, d.mode)
			} else {
				sb.Write(chunk)
			}
			i += nSrc
			j = i + 1
			limit = 3
			continue
		}

		switch {
		case err == transform.ErrShortSrc && j < len(b):
			j++
		case err == transform.ErrShortDst && limit < len(buf):
			limit++
		default:
			return "", &DecodeError{Encoding: d.name, Data: clone(b), Offset: i, Reason: "truncated data"}
		}
	}
	return sb.String(), nil
}

// isReplacementChar reports whether span is the codec's own encoding of
// U+FFFD, in either byte order for two-byte units, after a leading BOM.
func (d *textDecoder) isReplacementChar(span []byte) bool {
	if len(d.replacement) == 0 {
		return false
	}
	span = trimBOM(span)
	if bytes.Equal(span, d.replacement) {
		return true
	}
	r := d.replacement
	return len(r) == 2 && len(span) == 2 && span[0] == r[1] && span[1] == r[0]
}

// replacementChar returns how enc encodes U+FFFD, nil when it cannot.
func replacementChar(enc encoding.Encoding) []byte {
	b, err := enc.NewEncoder().Bytes([]byte(string(utf8.RuneError)))
	if err != nil {
		return nil
	}
	return trimBOM(b)
}

func trimBOM(b []byte) []byte {
	switch {
	case bytes.HasPrefix(b, []byte("\xef\xbb\xbf")):
		return b[3:]
	case bytes.HasPrefix(b, []byte("\xfe\xff")), bytes.HasPrefix(b, []byte("\xff\xfe")):
		return b[2:]
	}
	return b
}

func writeInvalidSpan(sb *strings.Builder, span []byte, mode ErrorMode) {
	if mode == ErrorsReplace {
		sb.WriteRune(utf8.RuneError)
		return
	}
	for _, c := range span {
		writeInvalid(sb, c, mode)
	}
}

// repairUTF8 applies a lenient mode to invalid UTF-8, one byte at a time.
func repairUTF8(b []byte, mode ErrorMode) string {
	var sb strings.Builder
	sb.Grow(len(b) + 8)

	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			writeInvalid(&sb, b[i], mode)
			i++
			continue
		}
		sb.Write(b[i : i+size])
		i += size
	}
	return sb.String()
}

func repairASCII(b []byte, mode ErrorMode) string {
	var sb strings.Builder
	sb.Grow(len(b) + 8)

	for _, c := range b {
		if c >= utf8.RuneSelf {
			writeInvalid(&sb, c, mode)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func writeInvalid(sb *strings.Builder, c byte, mode ErrorMode) {
	const hex = "0123456789abcdef"
	switch mode {
	case ErrorsReplace:
		sb.WriteRune(utf8.RuneError)
	case ErrorsBackslashReplace:
		sb.WriteString(`\x`)
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
}

func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

func firstNonASCII(b []byte) int {
	for i, c := range b {
		if c >= utf8.RuneSelf {
			return i
		}
	}
	return -1
}

// errorText decodes an error reply message. Error replies always use UTF-8
// with replacement, whatever the configured encoding.
func errorText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return repairUTF8(b, ErrorsReplace)
}

// clone copies b; the result is never nil.
func clone(b []byte) []byte {
	return append(make([]byte, 0, len(b)), b...)
}
