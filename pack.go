package resp

import (
	"io"
	"reflect"
	"strconv"

	"github.com/pior/resp/internal"
)

// Buffer pool for WriteCommand
var commandPool = internal.NewByteBufferPool(256, 64*1024)

// Pack serializes a command as a RESP array of bulk strings:
//
//	*<argc>\r\n$<len>\r\n<arg>\r\n...
//
// Arguments may be string, []byte, any integer type, float32 or float64.
// Strings are written as their UTF-8 bytes, numbers in decimal. Any other
// type returns an *InvalidArgumentError and no output.
//
// Pack allocates the exact output size once.
func Pack(args ...any) ([]byte, error) {
	size := arrayHeaderLen(len(args))
	for i, arg := range args {
		n, err := argLen(i, arg)
		if err != nil {
			return nil, err
		}
		size += bulkLen(n)
	}

	return appendCommand(make([]byte, 0, size), args), nil
}

// AppendCommand appends the packed command to dst and returns the extended
// slice. On error dst is returned unchanged.
func AppendCommand(dst []byte, args ...any) ([]byte, error) {
	for i, arg := range args {
		if _, err := argLen(i, arg); err != nil {
			return dst, err
		}
	}
	return appendCommand(dst, args), nil
}

// WriteCommand packs the command and writes it to w in a single Write call.
// Nothing is written when an argument is invalid.
func WriteCommand(w io.Writer, args ...any) error {
	buf := commandPool.Get()
	defer commandPool.Put(buf)

	b, err := AppendCommand(buf.AvailableBuffer(), args...)
	if err != nil {
		return err
	}
	buf.Write(b)

	_, err = w.Write(buf.Bytes())
	return err
}

// appendCommand expects arguments already validated by argLen.
func appendCommand(dst []byte, args []any) []byte {
	dst = append(dst, byte(TagArray))
	dst = strconv.AppendInt(dst, int64(len(args)), 10)
	dst = append(dst, CRLF...)

	var scratch [32]byte
	for _, arg := range args {
		token := appendToken(scratch[:0], arg)

		dst = append(dst, byte(TagBulkString))
		dst = strconv.AppendInt(dst, int64(len(token)), 10)
		dst = append(dst, CRLF...)
		dst = append(dst, token...)
		dst = append(dst, CRLF...)
	}
	return dst
}

// appendToken returns the serialized argument. Text and binary arguments are
// returned as is, without copying into dst.
func appendToken(dst []byte, arg any) []byte {
	switch v := arg.(type) {
	case []byte:
		return v
	case string:
		return append(dst, v...)
	case float64:
		return strconv.AppendFloat(dst, v, 'f', -1, 64)
	case float32:
		return strconv.AppendFloat(dst, float64(v), 'f', -1, 32)
	}

	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(dst, rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(dst, rv.Uint(), 10)
	}
	return dst
}

// argLen returns the serialized length of the argument at position i.
func argLen(i int, arg any) (int, error) {
	switch v := arg.(type) {
	case []byte:
		return len(v), nil
	case string:
		return len(v), nil
	case float64, float32:
		var scratch [32]byte
		return len(appendToken(scratch[:0], v)), nil
	}

	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var scratch [24]byte
		return len(appendToken(scratch[:0], arg)), nil
	}

	typ := "nil"
	if arg != nil {
		typ = rv.Type().String()
	}
	return 0, &InvalidArgumentError{Position: i, Type: typ}
}

func arrayHeaderLen(argc int) int {
	return 1 + decimalLen(argc) + len(CRLF)
}

func bulkLen(n int) int {
	return 1 + decimalLen(n) + len(CRLF) + n + len(CRLF)
}

func decimalLen(n int) int {
	l := 1
	for n >= 10 {
		n /= 10
		l++
	}
	return l
}
